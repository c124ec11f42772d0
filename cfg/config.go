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

// Package cfg holds the platform configuration for the file manager
// service: the compile-time constants of the original flight-software
// build turned into bindable, validated runtime configuration.
package cfg

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the full set of platform parameters. Field names mirror the
// FM_* platform-config constants; values are tunable at startup instead
// of at compile time.
type Config struct {
	AppName string `mapstructure:"app-name"`

	Logging LoggingConfig `mapstructure:"logging"`

	// PathMax bounds the length (including terminator) of every path
	// buffer the service accepts or constructs.
	PathMax int `mapstructure:"path-max"`

	// TableEntryCount is the fixed size of the volume free-space table.
	TableEntryCount int `mapstructure:"table-entry-count"`

	// ChildQueueDepth is the capacity of the handshake queue between the
	// command processor and the child worker.
	ChildQueueDepth int `mapstructure:"child-queue-depth"`

	// SBTimeout bounds how long the main loop blocks waiting on the bus
	// before giving the table layer a chance to run.
	SBTimeout time.Duration `mapstructure:"sb-timeout"`

	// DirListFileEntriesPerWake is handed to the command processor, which
	// stores it. The to-file listing executor does not receive it and
	// streams the whole directory in one pass without yielding.
	DirListFileEntriesPerWake int `mapstructure:"dir-list-file-entries-per-wake"`

	// DirListPktEntries bounds how many directory entries fit in a single
	// directory-listing telemetry packet.
	DirListPktEntries int `mapstructure:"dir-list-pkt-entries"`

	// IncludeDecompress gates the DECOMPRESS opcode at runtime: when it
	// is false the command processor rejects every DECOMPRESS command.
	// Whether the decompress executor is linked in at all is decided
	// separately by the nodecompress build tag.
	IncludeDecompress bool `mapstructure:"include-decompress"`

	// DefaultTableImagePath is the volume table image loaded at startup.
	DefaultTableImagePath string `mapstructure:"default-table-image-path"`

	// CopyBufferSize is the buffer size the worker passes to
	// io.CopyBuffer for streamed copy and concat operations. The
	// decompress executor does not use it.
	CopyBufferSize int `mapstructure:"copy-buffer-size"`

	// PipeDepth is the depth of the command input pipe.
	PipeDepth int `mapstructure:"pipe-depth"`

	// HKRequestMID is the bus message ID the housekeeping-request
	// scheduler publishes on.
	HKRequestMID uint16 `mapstructure:"hk-request-mid"`

	// CommandMID is the bus message ID operational commands arrive on.
	CommandMID uint16 `mapstructure:"command-mid"`
}

// LoggingConfig configures the leveled logger.
type LoggingConfig struct {
	Severity  string        `mapstructure:"severity"`
	Format    string        `mapstructure:"format"`
	FilePath  string        `mapstructure:"file-path"`
	LogRotate LogRotateConfig `mapstructure:"log-rotate"`
}

// LogRotateConfig configures lumberjack-backed log rotation.
type LogRotateConfig struct {
	MaxFileSizeMB   int  `mapstructure:"max-file-size-mb"`
	BackupFileCount int  `mapstructure:"backup-file-count"`
	Compress        bool `mapstructure:"compress"`
}

// BindFlags registers every configurable parameter as a persistent flag
// and binds it into viper, mirroring the reference implementation's
// cfg.BindFlags.
func BindFlags(flagSet *pflag.FlagSet) error {
	d := DefaultConfig()

	flagSet.String("app-name", d.AppName, "Application name reported in NOOP and startup events.")
	flagSet.String("logging.severity", d.Logging.Severity, "Minimum log severity: TRACE, DEBUG, INFO, WARNING, ERROR, OFF.")
	flagSet.String("logging.format", d.Logging.Format, "Log output format: text or json.")
	flagSet.String("logging.file-path", d.Logging.FilePath, "Optional log file path; empty logs to stderr only.")
	flagSet.Int("logging.log-rotate.max-file-size-mb", d.Logging.LogRotate.MaxFileSizeMB, "Max log file size before rotation, in MB.")
	flagSet.Int("logging.log-rotate.backup-file-count", d.Logging.LogRotate.BackupFileCount, "Number of rotated log files to retain.")
	flagSet.Bool("logging.log-rotate.compress", d.Logging.LogRotate.Compress, "Gzip-compress rotated log files.")
	flagSet.Int("path-max", d.PathMax, "Maximum path length, including the NUL terminator.")
	flagSet.Int("table-entry-count", d.TableEntryCount, "Number of entries in the volume free-space table.")
	flagSet.Int("child-queue-depth", d.ChildQueueDepth, "Depth of the command/worker handshake queue.")
	flagSet.Duration("sb-timeout", d.SBTimeout, "Bus receive timeout for the main loop.")
	flagSet.Int("dir-list-file-entries-per-wake", d.DirListFileEntriesPerWake, "Directory entries streamed to file per scheduler wake (stored by the command processor; the to-file listing does not yield).")
	flagSet.Int("dir-list-pkt-entries", d.DirListPktEntries, "Directory entries per directory-listing telemetry packet.")
	flagSet.Bool("include-decompress", d.IncludeDecompress, "Whether the command processor accepts the decompress opcode.")
	flagSet.String("default-table-image-path", d.DefaultTableImagePath, "Default volume table image loaded at startup.")
	flagSet.Int("copy-buffer-size", d.CopyBufferSize, "Buffer size in bytes for streamed copy/concat I/O.")
	flagSet.Int("pipe-depth", d.PipeDepth, "Depth of the command input pipe.")
	flagSet.Uint16("hk-request-mid", d.HKRequestMID, "Bus message ID for housekeeping requests.")
	flagSet.Uint16("command-mid", d.CommandMID, "Bus message ID for operational commands.")

	return viper.BindPFlags(flagSet)
}
