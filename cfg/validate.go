// Copyright 2026 The fm-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cfg

import "fmt"

// Validate enforces the range invariants spec.md §3/§6 place on the
// platform constants. It runs once at startup, after flags and any
// config file have been merged.
func (c *Config) Validate() error {
	if c.PathMax < 2 {
		return fmt.Errorf("path-max must be at least 2 (one byte of name plus the terminator), got %d", c.PathMax)
	}
	if c.TableEntryCount < 1 {
		return fmt.Errorf("table-entry-count must be at least 1, got %d", c.TableEntryCount)
	}
	if c.ChildQueueDepth < 1 {
		return fmt.Errorf("child-queue-depth must be at least 1, got %d", c.ChildQueueDepth)
	}
	if c.SBTimeout <= 0 {
		return fmt.Errorf("sb-timeout must be positive, got %s", c.SBTimeout)
	}
	if c.DirListFileEntriesPerWake < 1 {
		return fmt.Errorf("dir-list-file-entries-per-wake must be at least 1, got %d", c.DirListFileEntriesPerWake)
	}
	if c.DirListPktEntries < 1 {
		return fmt.Errorf("dir-list-pkt-entries must be at least 1, got %d", c.DirListPktEntries)
	}
	if c.CopyBufferSize < 1 {
		return fmt.Errorf("copy-buffer-size must be at least 1, got %d", c.CopyBufferSize)
	}
	if c.PipeDepth < 1 {
		return fmt.Errorf("pipe-depth must be at least 1, got %d", c.PipeDepth)
	}
	switch c.Logging.Severity {
	case OFF, ERROR, WARNING, INFO, DEBUG, TRACE:
	default:
		return fmt.Errorf("logging.severity must be one of OFF/ERROR/WARNING/INFO/DEBUG/TRACE, got %q", c.Logging.Severity)
	}
	if err := isValidLogRotateConfig(&c.Logging.LogRotate); err != nil {
		return err
	}
	return nil
}

func isValidLogRotateConfig(c *LogRotateConfig) error {
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("logging.log-rotate.max-file-size-mb should be at least 1")
	}
	if c.BackupFileCount < 0 {
		return fmt.Errorf("logging.log-rotate.backup-file-count should be 0 (retain all) or positive")
	}
	return nil
}
