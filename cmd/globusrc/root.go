// Copyright 2025 walteh LLC
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
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/globusrc/pkg/config"
	"github.com/walteh/globusrc/pkg/log"
)

var (
	// Flags
	configFile string
	debug      bool
	logFile    string
)

// 🎯 addRootFlags registers the flags shared by every subcommand
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (default: .globusrc.hcl or .globusrc.yaml)")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append JSON log lines to this file (overrides "+config.EnvLogFile+")")
}

// 🔧 setupLogging configures zerolog and the user logger, returning a
// context that carries both plus a unique run id.
func setupLogging(ctx context.Context) (context.Context, error) {
	level := zerolog.InfoLevel
	if v := os.Getenv(config.EnvLogLevel); v != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(v)))
		if err != nil {
			return nil, errors.Errorf("parsing %s: %w", config.EnvLogLevel, err)
		}
		level = parsed
	}
	if debug {
		level = zerolog.DebugLevel
	}

	path := logFile
	if path == "" {
		path = os.Getenv(config.EnvLogFile)
	}

	// The console gets human-readable lines, a log file gets raw JSON.
	var writer io.Writer = zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, errors.Errorf("opening log file %s: %w", path, err)
		}
		writer = f
	}

	zlog := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()

	zerolog.DefaultContextLogger = &zlog
	ctx = zlog.WithContext(ctx)

	userLogger := log.New(os.Stdout, zlog)
	ctx = log.NewContext(ctx, userLogger)

	return ctx, nil
}
