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

// 🎯 package main is the entry point for globusrc
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/globusrc/cmd/globusrc/commands"
	"github.com/walteh/globusrc/cmd/globusrc/opts"
	"github.com/walteh/globusrc/pkg/globus"
)

func main() {
	os.Exit(run(context.Background()))
}

// 🏃 run executes the root command and maps errors to an exit code
func run(ctx context.Context) int {
	rootCmd := newRootCmd()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// A transfer tool failure carries the tool's own exit status.
		var exitErr *globus.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}

		return 1
	}

	return 0
}

// 🌳 newRootCmd builds the globusrc command tree
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "globusrc",
		Short: "Drive globus transfers and reshape actigraphy exports",
		Long: `globusrc wraps the globus command line tool with environment-driven
configuration and reorganizes exported actigraphy files into a
subject and session layout ready for analysis.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := setupLogging(cmd.Context())
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)

			return nil
		},
	}

	addRootFlags(rootCmd)

	ro := &opts.RootOpts{ConfigPath: &configFile}

	rootCmd.AddCommand(commands.NewSyncCmd(ro))
	rootCmd.AddCommand(commands.NewReshapeCmd(ro))
	rootCmd.AddCommand(commands.NewDoctorCmd(ro))

	return rootCmd
}
