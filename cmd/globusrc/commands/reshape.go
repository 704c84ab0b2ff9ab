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
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/globusrc/cmd/globusrc/opts"
	"github.com/walteh/globusrc/pkg/config"
	"github.com/walteh/globusrc/pkg/log"
	"github.com/walteh/globusrc/pkg/reshape"
)

// 🔄 NewReshapeCmd creates a new reshape command
func NewReshapeCmd(ro *opts.RootOpts) *cobra.Command {
	var (
		basePath  string
		dryRun    bool
		apply     bool
		handleZip bool
		verify    bool
	)

	cmd := &cobra.Command{
		Use:   "reshape",
		Short: "Reorganize raw actigraphy exports into the subject/session layout",
		Long: `Reshape locates the ne-dump subtree beneath the base directory and
copies recognized export files into act-int-test. It will:
1. Optionally detect and unpack a single delivery archive (--handle-zip)
2. Enumerate candidate files and compute their destinations
3. Copy pairs whose destination does not exist yet, skip the rest
4. Report every pair; dry-run mode (the default) writes nothing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "reshape").Logger().WithContext(ctx)

			file, err := ro.LoadFile(ctx)
			if err != nil {
				return errors.Errorf("loading config file: %w", err)
			}

			flags := cmd.Flags()
			ov := config.ReshapeOverrides{}
			if flags.Changed("base-path") {
				ov.BasePath = config.Set(basePath)
			}
			if flags.Changed("dry-run") {
				ov.DryRun = config.Set(dryRun)
			}
			if apply {
				ov.DryRun = config.Set(false)
			}
			if flags.Changed("handle-zip") {
				ov.HandleZip = config.Set(handleZip)
			}
			if flags.Changed("verify") {
				ov.Verify = config.Set(verify)
			}

			cfg, err := config.ReshapeFromEnv(file, ov)
			if err != nil {
				return err
			}

			result, err := reshape.Run(ctx, cfg)
			if err != nil {
				return errors.Errorf("reshaping files: %w", err)
			}

			reportReshape(ctx, cfg, result)

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&basePath, "base-path", "", "directory containing the ne-dump subtree (overrides "+config.EnvBasePath+")")
	flags.BoolVar(&dryRun, "dry-run", true, "report what would change without writing anything")
	flags.BoolVar(&apply, "apply", false, "actually copy files (shorthand for --dry-run=false)")
	flags.BoolVar(&handleZip, "handle-zip", false, "detect and unpack a single archive before mapping")
	flags.BoolVar(&verify, "verify", false, "checksum skipped pairs and flag content mismatches")

	cmd.MarkFlagsMutuallyExclusive("dry-run", "apply")

	return cmd
}

// 🖨️ reportReshape renders a run result through the user logger, one line per
// pair plus a closing summary.
func reportReshape(ctx context.Context, cfg *config.Reshape, result *reshape.Result) {
	userLogger := log.FromContext(ctx)
	base := filepath.Dir(result.SourceDir)

	if cfg.DryRun {
		userLogger.Header("reshape (dry-run)")
	} else {
		userLogger.Header("reshape")
	}

	if archive := result.Archive; archive != nil {
		if cfg.DryRun && len(archive.Entries) > 0 {
			names := make([]string, 0, len(archive.Entries))
			for _, entry := range archive.Entries {
				names = append(names, entry.Name)
			}
			userLogger.Infof("would extract %s into %s", filepath.Base(archive.Path), displayPath(base, result.SourceDir))
			userLogger.LogArchivePreview(filepath.Base(archive.Path), names)
		}
		if archive.Extracted > 0 {
			userLogger.Successf("extracted %d entries from %s", archive.Extracted, filepath.Base(archive.Path))
		}
	}

	for _, m := range result.Mappings {
		userLogger.LogPairOperation(ctx, log.PairOperation{
			Source:      displayPath(base, m.Source),
			Destination: displayPath(base, m.Destination),
			Status:      m.Outcome.String(),
			Differs:     m.Verified != nil && !m.Verified.Match,
		})
	}

	copied := len(result.Copied())
	skipped := len(result.Skipped())
	planned := len(result.Mappings) - skipped

	switch {
	case len(result.Mappings) == 0:
		userLogger.LogRunEvent(log.RunCompleted, "no recognized files under "+displayPath(base, result.SourceDir))
	case cfg.DryRun:
		userLogger.LogRunEvent(log.RunCompleted, fmt.Sprintf("dry-run complete: %d to copy, %d already present", planned, skipped))
	case copied == 0:
		userLogger.LogRunEvent(log.RunSkippedAll, fmt.Sprintf("nothing to do: all %d destinations already present", skipped))
	default:
		userLogger.LogRunEvent(log.RunCompleted, fmt.Sprintf("copied %d files, skipped %d", copied, skipped))
	}
}

// displayPath shortens an absolute path to be relative to the base directory
// when possible. Full paths stay full if they sit outside it.
func displayPath(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." {
		return path
	}
	return rel
}
