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
	"os"
	"os/exec"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/globusrc/cmd/globusrc/opts"
	"github.com/walteh/globusrc/pkg/config"
	"github.com/walteh/globusrc/pkg/log"
)

// Release coordinates of the external transfer tool
const (
	cliReleaseOwner = "globus"
	cliReleaseRepo  = "globus-cli"
)

// 🩺 NewDoctorCmd creates a new doctor command
func NewDoctorCmd(ro *opts.RootOpts) *cobra.Command {
	var (
		cli         string
		checkLatest bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the transfer tool is installed and authenticated",
		Long: `Doctor verifies the local globus installation. It will:
1. Resolve the configured executable on PATH
2. Report its version
3. Check the login session (globus whoami)
4. Optionally compare against the latest released version (--check-latest)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "doctor").Logger().WithContext(ctx)
			userLogger := log.FromContext(ctx)

			file, err := ro.LoadFile(ctx)
			if err != nil {
				return errors.Errorf("loading config file: %w", err)
			}

			// Only the executable name matters here; an incomplete transfer
			// configuration must not block diagnosis.
			cliName := config.DefaultCLI
			if file != nil && file.Sync != nil && file.Sync.CLI != "" {
				cliName = file.Sync.CLI
			}
			if v := os.Getenv(config.EnvCLI); v != "" {
				cliName = v
			}
			if cmd.Flags().Changed("globus-cli") {
				cliName = cli
			}

			path, err := exec.LookPath(cliName)
			if err != nil {
				userLogger.Errorf("%s not found on PATH, install it first", cliName)
				return errors.Errorf("locating %s: %w", cliName, err)
			}
			userLogger.Successf("found %s", path)

			version, err := runCapture(ctx, path, "version")
			if err != nil {
				userLogger.Warningf("could not read version: %v", err)
			} else {
				userLogger.Infof("version: %s", version)
			}

			whoami, err := runCapture(ctx, path, "whoami")
			if err != nil {
				userLogger.Errorf("no active login session, run: %s login", cliName)
				return errors.Errorf("checking login session: %w", err)
			}
			userLogger.Successf("authenticated as %s", whoami)

			if checkLatest {
				reportLatestRelease(ctx, userLogger, version)
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cli, "globus-cli", "", "transfer tool executable (overrides "+config.EnvCLI+")")
	flags.BoolVar(&checkLatest, "check-latest", false, "compare the installed version against the latest GitHub release")

	return cmd
}

// runCapture runs the tool with a single subcommand and returns its trimmed
// standard output.
func runCapture(ctx context.Context, path string, sub string) (string, error) {
	out, err := exec.CommandContext(ctx, path, sub).Output()
	if err != nil {
		return "", errors.Errorf("running %s %s: %w", path, sub, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// 🌐 reportLatestRelease compares the installed version against the newest
// GitHub release. Network trouble degrades to a warning; doctor never fails
// because GitHub is unreachable.
func reportLatestRelease(ctx context.Context, userLogger *log.Logger, version string) {
	latest, err := latestReleaseTag(ctx)
	if err != nil {
		userLogger.Warningf("could not check latest release: %v", err)
		return
	}

	switch {
	case version == "":
		userLogger.Warningf("latest release is %s, installed version unknown", latest)
	case strings.Contains(version, strings.TrimPrefix(latest, "v")):
		userLogger.Successf("up to date (%s)", latest)
	default:
		userLogger.Warningf("latest release is %s, installed reports %q", latest, version)
	}
}

// latestReleaseTag asks the GitHub API for the newest release of the tool.
func latestReleaseTag(ctx context.Context) (string, error) {
	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}

	release, _, err := client.Repositories.GetLatestRelease(ctx, cliReleaseOwner, cliReleaseRepo)
	if err != nil {
		var rateErr *github.RateLimitError
		if errors.As(err, &rateErr) {
			return "", errors.Errorf("GitHub rate limit exceeded, set GITHUB_TOKEN: %w", err)
		}
		return "", errors.Errorf("getting latest release: %w", err)
	}

	return release.GetTagName(), nil
}
