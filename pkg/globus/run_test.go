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

package globus_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/globusrc/pkg/globus"
)

// writeScript drops an executable shell script into dir and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func testContext(t *testing.T) context.Context {
	t.Helper()

	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestRunPropagatesExitStatus(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{
			name:     "clean exit",
			body:     "exit 0",
			wantCode: 0,
		},
		{
			name:     "generic failure",
			body:     "exit 1",
			wantCode: 1,
		},
		{
			name:     "specific status survives unchanged",
			body:     "exit 7",
			wantCode: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			cfg.CLI = writeScript(t, t.TempDir(), "tool.sh", tt.body)

			err := globus.Run(testContext(t), cfg)

			if tt.wantCode == 0 {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			var exitErr *globus.ExitError
			require.True(t, errors.As(err, &exitErr), "expected *globus.ExitError, got %T", err)
			assert.Equal(t, tt.wantCode, exitErr.Code)
		})
	}
}

func TestRunMissingBinary(t *testing.T) {
	cfg := baseConfig()
	cfg.CLI = filepath.Join(t.TempDir(), "no-such-tool")

	err := globus.Run(testContext(t), cfg)

	require.Error(t, err)
	var exitErr *globus.ExitError
	assert.False(t, errors.As(err, &exitErr), "launch failures must not masquerade as tool exits")
	assert.Contains(t, err.Error(), "launching")
}

func TestRunPassesAssembledArgv(t *testing.T) {
	dir := t.TempDir()
	outFile := filepath.Join(dir, "argv.txt")

	cfg := baseConfig()
	cfg.DryRun = true
	cfg.ExtraFlags = []string{"--verbose"}
	cfg.CLI = writeScript(t, dir, "tool.sh", `printf '%s\n' "$@" > `+outFile)

	require.NoError(t, globus.Run(testContext(t), cfg))

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)

	got := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := globus.BuildArgs(cfg)[1:]
	assert.Equal(t, want, got)
}
