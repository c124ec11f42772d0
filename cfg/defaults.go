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

import "time"

const (
	OFF     = "OFF"
	ERROR   = "ERROR"
	WARNING = "WARNING"
	INFO    = "INFO"
	DEBUG   = "DEBUG"
	TRACE   = "TRACE"
)

// DefaultConfig returns the configuration used before any flag/file
// overrides have been applied; every ConfigBuildtimeConstant from the
// original flight-software build has a default here.
func DefaultConfig() Config {
	return Config{
		AppName: "FM",
		Logging: LoggingConfig{
			Severity: INFO,
			Format:   "text",
			LogRotate: LogRotateConfig{
				MaxFileSizeMB:   10,
				BackupFileCount: 4,
				Compress:        true,
			},
		},
		PathMax:                   64,
		TableEntryCount:           8,
		ChildQueueDepth:           10,
		SBTimeout:                 1 * time.Second,
		DirListFileEntriesPerWake: 20,
		DirListPktEntries:         10,
		IncludeDecompress:         true,
		DefaultTableImagePath:     "/cf/fm_table.yaml",
		CopyBufferSize:            512,
		PipeDepth:                 16,
		HKRequestMID:              0x1890,
		CommandMID:                0x1891,
	}
}
