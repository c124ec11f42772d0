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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/classicvalues/fm-go/cfg"
	"github.com/classicvalues/fm-go/internal/app"
	"github.com/classicvalues/fm-go/internal/bus"
	"github.com/classicvalues/fm-go/internal/fsops"
	"github.com/classicvalues/fm-go/internal/logger"
	"github.com/classicvalues/fm-go/internal/telemetry"

	"go.opentelemetry.io/otel/metric/noop"
)

var (
	cfgFile       string
	bindErr       error
	configFileErr error
	unmarshalErr  error
	runtimeConfig cfg.Config
)

var rootCmd = &cobra.Command{
	Use:   "fm",
	Short: "Onboard file manager service",
	Long: `fm runs the file manager service: a high-priority command
processor and a low-priority child worker connected by a handshake
queue, managing files, directories, and a volume free-space table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if bindErr != nil {
			return bindErr
		}
		if configFileErr != nil {
			return configFileErr
		}
		if unmarshalErr != nil {
			return unmarshalErr
		}
		return runApp()
	},
}

func runApp() error {
	c := runtimeConfig
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.SetLogFormat(c.Logging.Format)
	if err := logger.InitLogFile(c.Logging.LogRotate, c.Logging); err != nil {
		return fmt.Errorf("initializing log file: %w", err)
	}

	meterProvider := noop.NewMeterProvider()
	metrics, err := telemetry.NewMetrics(meterProvider.Meter(c.AppName))
	if err != nil {
		return fmt.Errorf("constructing metrics: %w", err)
	}

	b := bus.NewInMemory()
	fs := fsops.NewLocal(c.AppName)

	a := app.New(c, b, fs, metrics)
	if err := a.Init(); err != nil {
		return fmt.Errorf("initializing app: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("%s: starting main loop", c.AppName)
	if err := a.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("main loop exited: %w", err)
	}
	logger.Infof("%s: shut down", c.AppName)
	return nil
}

// Execute runs the root command, mirroring the reference CLI's
// top-level error handling: print to stderr and exit nonzero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "Path to a YAML config file.")
	bindErr = cfg.BindFlags(rootCmd.PersistentFlags())
}

func unmarshalConfig() error {
	return cfg.DecodeError(viper.Unmarshal(&runtimeConfig, viper.DecodeHook(cfg.DecodeHook())))
}

func initConfig() {
	if cfgFile == "" {
		unmarshalErr = unmarshalConfig()
		return
	}
	resolved, err := filepath.Abs(cfgFile)
	if err != nil {
		configFileErr = fmt.Errorf("resolving config file path: %w", err)
		return
	}
	viper.SetConfigFile(resolved)
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		configFileErr = fmt.Errorf("reading config file: %w", err)
		return
	}
	unmarshalErr = unmarshalConfig()
}
