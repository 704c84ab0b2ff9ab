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

package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/globusrc/cmd/globusrc/opts"
	"github.com/walteh/globusrc/pkg/config"
	"github.com/walteh/globusrc/pkg/globus"
)

// 🚀 NewSyncCmd creates a new sync command
func NewSyncCmd(ro *opts.RootOpts) *cobra.Command {
	var (
		sourceEndpoint  string
		destEndpoint    string
		sourcePath      string
		destPath        string
		label           string
		syncLevel       string
		notify          string
		preserveMtime   bool
		noPreserveMtime bool
		dryRun          bool
		showCommand     bool
		cli             string
		extraFlags      []string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run a globus transfer between the configured endpoints",
		Long: `Sync assembles a globus transfer invocation and executes it. It will:
1. Merge configuration (flags, then environment, then config file)
2. Validate endpoints, paths and value choices
3. Print the full command (--show-command) or execute it
4. Propagate the external tool's exit status on failure`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "sync").Logger().WithContext(ctx)

			file, err := ro.LoadFile(ctx)
			if err != nil {
				return errors.Errorf("loading config file: %w", err)
			}

			flags := cmd.Flags()
			ov := config.SyncOverrides{}
			if flags.Changed("source-endpoint") {
				ov.SourceEndpoint = config.Set(sourceEndpoint)
			}
			if flags.Changed("dest-endpoint") {
				ov.DestEndpoint = config.Set(destEndpoint)
			}
			if flags.Changed("source-path") {
				ov.SourcePath = config.Set(sourcePath)
			}
			if flags.Changed("dest-path") {
				ov.DestPath = config.Set(destPath)
			}
			if flags.Changed("label") {
				ov.Label = config.Set(label)
			}
			if flags.Changed("sync-level") {
				ov.SyncLevel = config.Set(syncLevel)
			}
			if flags.Changed("notify") {
				ov.Notify = config.Set(notify)
			}
			if flags.Changed("preserve-mtime") {
				ov.PreserveMtime = config.Set(preserveMtime)
			}
			if noPreserveMtime {
				ov.PreserveMtime = config.Set(false)
			}
			if flags.Changed("dry-run") {
				ov.DryRun = config.Set(dryRun)
			}
			if flags.Changed("extra-flag") {
				ov.ExtraFlags = config.Set(extraFlags)
			}
			if flags.Changed("globus-cli") {
				ov.CLI = config.Set(cli)
			}

			cfg, err := config.SyncFromEnv(file, ov)
			if err != nil {
				return err
			}

			if showCommand {
				fmt.Fprintln(cmd.OutOrStdout(), globus.CommandString(cfg))

				return nil
			}

			zerolog.Ctx(ctx).Info().
				Str("source", cfg.SourceEndpoint+":"+cfg.SourcePath).
				Str("destination", cfg.DestEndpoint+":"+cfg.DestPath).
				Str("label", cfg.Label).
				Bool("dry_run", cfg.DryRun).
				Msg("starting transfer")

			return globus.Run(ctx, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&sourceEndpoint, "source-endpoint", "", "source endpoint UUID (overrides "+config.EnvSourceEndpoint+")")
	flags.StringVar(&destEndpoint, "dest-endpoint", "", "destination endpoint UUID (overrides "+config.EnvDestEndpoint+")")
	flags.StringVar(&sourcePath, "source-path", "", "path on the source endpoint (overrides "+config.EnvSourcePath+")")
	flags.StringVar(&destPath, "dest-path", "", "absolute path on the destination endpoint (overrides "+config.EnvDestPath+")")
	flags.StringVar(&label, "label", "", "transfer label shown in the globus UI")
	flags.StringVar(&syncLevel, "sync-level", "", "sync level: exists, size, mtime or checksum")
	flags.StringVar(&notify, "notify", "", "notification mode: on, off or failed (empty omits the flag)")
	flags.BoolVar(&preserveMtime, "preserve-mtime", false, "preserve source modification times")
	flags.BoolVar(&noPreserveMtime, "no-preserve-mtime", false, "do not preserve source modification times")
	flags.BoolVar(&dryRun, "dry-run", false, "ask the external tool to simulate the transfer")
	flags.StringArrayVar(&extraFlags, "extra-flag", nil, "extra flag passed through to the external tool (repeatable)")
	flags.StringVar(&cli, "globus-cli", "", "transfer tool executable (overrides "+config.EnvCLI+")")
	flags.BoolVar(&showCommand, "show-command", false, "print the assembled command instead of executing it")

	cmd.MarkFlagsMutuallyExclusive("preserve-mtime", "no-preserve-mtime")

	return cmd
}
