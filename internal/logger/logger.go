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

// Package logger provides the leveled, format-switchable event log used
// in place of the cFS event-services bus: every validator rejection,
// worker failure, and successful mutation is reported through here.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/classicvalues/fm-go/cfg"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Custom severities. TRACE and OFF extend slog's four built-in levels to
// match the five cFS event severities plus a silence-everything mode
// used by ground-commandable log verbosity.
const (
	LevelTrace = slog.Level(-8)
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelOff   = slog.Level(12)
)

var severityNames = map[slog.Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARNING",
	LevelError: "ERROR",
}

type loggerFactory struct {
	file            *os.File
	sysWriter       io.Writer
	format          string
	level           string
	logRotateConfig cfg.LogRotateConfig
}

var (
	defaultLoggerFactory = &loggerFactory{
		level: cfg.INFO,
		logRotateConfig: cfg.LogRotateConfig{
			MaxFileSizeMB:   10,
			BackupFileCount: 4,
			Compress:        true,
		},
	}
	defaultLogger = slog.New(defaultLoggerFactory.createJsonOrTextHandler(os.Stderr, new(slog.LevelVar), ""))
)

func setLoggingLevel(level string, programLevel *slog.LevelVar) {
	switch level {
	case cfg.TRACE:
		programLevel.Set(LevelTrace)
	case cfg.DEBUG:
		programLevel.Set(LevelDebug)
	case cfg.INFO:
		programLevel.Set(LevelInfo)
	case cfg.WARNING:
		programLevel.Set(LevelWarn)
	case cfg.ERROR:
		programLevel.Set(LevelError)
	default:
		programLevel.Set(LevelOff)
	}
}

func (f *loggerFactory) createJsonOrTextHandler(w io.Writer, level *slog.LevelVar, prefix string) slog.Handler {
	setLoggingLevel(f.level, level)
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.LevelKey:
				lvl := a.Value.Any().(slog.Level)
				name, ok := severityNames[lvl]
				if !ok {
					name = lvl.String()
				}
				return slog.String("severity", name)
			case slog.MessageKey:
				return slog.String("message", prefix+a.Value.String())
			}
			return a
		},
	}
	if f.format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// SetLogFormat switches between "text" and "json" output, rebuilding the
// default logger against the currently configured sink.
func SetLogFormat(format string) {
	if format != "json" && format != "text" {
		format = "json"
	}
	defaultLoggerFactory.format = format
	w := defaultLoggerFactory.sysWriter
	if w == nil {
		w = os.Stderr
	}
	defaultLogger = slog.New(defaultLoggerFactory.createJsonOrTextHandler(w, new(slog.LevelVar), ""))
}

// InitLogFile opens (or creates) the rotating log file described by
// newLogConfig and points the default logger at it.
func InitLogFile(legacy cfg.LogRotateConfig, newLogConfig cfg.LoggingConfig) error {
	if newLogConfig.FilePath == "" {
		return nil
	}
	f, err := os.OpenFile(newLogConfig.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file %q: %w", newLogConfig.FilePath, err)
	}
	lrc := newLogConfig.LogRotate
	if lrc == (cfg.LogRotateConfig{}) {
		lrc = legacy
	}
	defaultLoggerFactory = &loggerFactory{
		file:            f,
		format:          newLogConfig.Format,
		level:           newLogConfig.Severity,
		logRotateConfig: lrc,
	}
	async := NewAsyncLogger(&lumberjack.Logger{
		Filename:   newLogConfig.FilePath,
		MaxSize:    lrc.MaxFileSizeMB,
		MaxBackups: lrc.BackupFileCount,
		Compress:   lrc.Compress,
	}, 256)
	defaultLoggerFactory.sysWriter = async
	defaultLogger = slog.New(defaultLoggerFactory.createJsonOrTextHandler(async, new(slog.LevelVar), ""))
	return nil
}

var ctx = context.Background()

func Tracef(format string, args ...any) { defaultLogger.Log(ctx, LevelTrace, fmt.Sprintf(format, args...)) }
func Debugf(format string, args ...any) { defaultLogger.Log(ctx, LevelDebug, fmt.Sprintf(format, args...)) }
func Infof(format string, args ...any)  { defaultLogger.Log(ctx, LevelInfo, fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...any)  { defaultLogger.Log(ctx, LevelWarn, fmt.Sprintf(format, args...)) }
func Errorf(format string, args ...any) { defaultLogger.Log(ctx, LevelError, fmt.Sprintf(format, args...)) }
