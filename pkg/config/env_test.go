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

package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/globusrc/pkg/config"
)

var allEnvKeys = []string{
	config.EnvSourceEndpoint,
	config.EnvDestEndpoint,
	config.EnvSourcePath,
	config.EnvDestPath,
	config.EnvLabel,
	config.EnvSyncLevel,
	config.EnvNotify,
	config.EnvPreserveMtime,
	config.EnvDryRun,
	config.EnvExtraFlags,
	config.EnvCLI,
	config.EnvBasePath,
}

// clearEnv truly unsets the given keys for the duration of the test.
// t.Setenv registers the restore; the Unsetenv makes them absent rather than
// empty, which matters for the set-but-empty cases below.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()

	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

// setRequiredSyncEnv provides the three variables without which the transfer
// flow refuses to assemble.
func setRequiredSyncEnv(t *testing.T) {
	t.Helper()

	t.Setenv(config.EnvSourceEndpoint, "aaaa1111-1111-1111-1111-111111111111")
	t.Setenv(config.EnvDestEndpoint, "bbbb2222-2222-2222-2222-222222222222")
	t.Setenv(config.EnvDestPath, "/data/incoming")
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{input: "0", want: false},
		{input: "false", want: false},
		{input: "FALSE", want: false},
		{input: "no", want: false},
		{input: "No", want: false},
		{input: "off", want: false},
		{input: "OFF", want: false},
		{input: "  off  ", want: false},
		{input: "1", want: true},
		{input: "true", want: true},
		{input: "yes", want: true},
		{input: "on", want: true},
		{input: "anything else", want: true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, config.ParseBool(tt.input), "ParseBool(%q)", tt.input)
	}
}

func TestSyncFromEnvDefaults(t *testing.T) {
	clearEnv(t, allEnvKeys...)
	setRequiredSyncEnv(t)

	cfg, err := config.SyncFromEnv(nil, config.SyncOverrides{})
	require.NoError(t, err)

	assert.Equal(t, "aaaa1111-1111-1111-1111-111111111111", cfg.SourceEndpoint)
	assert.Equal(t, "bbbb2222-2222-2222-2222-222222222222", cfg.DestEndpoint)
	assert.Equal(t, "/data/incoming", cfg.DestPath)
	assert.Equal(t, config.DefaultSourcePath, cfg.SourcePath)
	assert.Equal(t, config.DefaultLabel, cfg.Label)
	assert.Equal(t, config.DefaultSyncLevel, cfg.SyncLevel)
	assert.Equal(t, config.DefaultNotify, cfg.Notify)
	assert.True(t, cfg.PreserveMtime)
	assert.False(t, cfg.DryRun)
	assert.Empty(t, cfg.ExtraFlags)
	assert.Equal(t, config.DefaultCLI, cfg.CLI)
}

func TestSyncFromEnvMissingRequired(t *testing.T) {
	tests := []struct {
		name        string
		unset       string
		errContains string
	}{
		{
			name:        "no source endpoint",
			unset:       config.EnvSourceEndpoint,
			errContains: config.EnvSourceEndpoint,
		},
		{
			name:        "no destination endpoint",
			unset:       config.EnvDestEndpoint,
			errContains: config.EnvDestEndpoint,
		},
		{
			name:        "no destination path",
			unset:       config.EnvDestPath,
			errContains: config.EnvDestPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t, allEnvKeys...)
			setRequiredSyncEnv(t)
			clearEnv(t, tt.unset)

			_, err := config.SyncFromEnv(nil, config.SyncOverrides{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestSyncFromEnvEnvironmentValues(t *testing.T) {
	clearEnv(t, allEnvKeys...)
	setRequiredSyncEnv(t)
	t.Setenv(config.EnvSourcePath, "/exports/2026")
	t.Setenv(config.EnvLabel, "weekly dump")
	t.Setenv(config.EnvSyncLevel, "checksum")
	t.Setenv(config.EnvNotify, "failed")
	t.Setenv(config.EnvPreserveMtime, "off")
	t.Setenv(config.EnvDryRun, "1")
	t.Setenv(config.EnvCLI, "/opt/globus/bin/globus")

	cfg, err := config.SyncFromEnv(nil, config.SyncOverrides{})
	require.NoError(t, err)

	assert.Equal(t, "/exports/2026", cfg.SourcePath)
	assert.Equal(t, "weekly dump", cfg.Label)
	assert.Equal(t, "checksum", cfg.SyncLevel)
	assert.Equal(t, "failed", cfg.Notify)
	assert.False(t, cfg.PreserveMtime)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, "/opt/globus/bin/globus", cfg.CLI)
}

func TestSyncFromEnvOverridesBeatEverything(t *testing.T) {
	clearEnv(t, allEnvKeys...)
	setRequiredSyncEnv(t)
	t.Setenv(config.EnvLabel, "from env")
	t.Setenv(config.EnvPreserveMtime, "true")

	file := &config.File{Sync: &config.SyncBlock{Label: "from file"}}

	cfg, err := config.SyncFromEnv(file, config.SyncOverrides{
		Label:         config.Set("from flag"),
		PreserveMtime: config.Set(false),
	})
	require.NoError(t, err)

	assert.Equal(t, "from flag", cfg.Label)
	assert.False(t, cfg.PreserveMtime)
}

func TestSyncFromEnvFileBelowEnvironment(t *testing.T) {
	clearEnv(t, allEnvKeys...)
	t.Setenv(config.EnvSourceEndpoint, "aaaa1111-1111-1111-1111-111111111111")
	t.Setenv(config.EnvSyncLevel, "exists")

	preserve := false
	file := &config.File{Sync: &config.SyncBlock{
		DestEndpoint:  "cccc3333-3333-3333-3333-333333333333",
		DestPath:      "/from/file",
		SyncLevel:     "size",
		PreserveMtime: &preserve,
	}}

	cfg, err := config.SyncFromEnv(file, config.SyncOverrides{})
	require.NoError(t, err)

	// Environment wins where set, the file fills the rest.
	assert.Equal(t, "exists", cfg.SyncLevel)
	assert.Equal(t, "cccc3333-3333-3333-3333-333333333333", cfg.DestEndpoint)
	assert.Equal(t, "/from/file", cfg.DestPath)
	assert.False(t, cfg.PreserveMtime)
}

func TestSyncFromEnvEmptyNotifyMeansOmit(t *testing.T) {
	clearEnv(t, allEnvKeys...)
	setRequiredSyncEnv(t)
	t.Setenv(config.EnvNotify, "")

	cfg, err := config.SyncFromEnv(nil, config.SyncOverrides{})
	require.NoError(t, err)

	// Set-but-empty is meaningful for notify: the flag gets omitted instead
	// of falling back to the default.
	assert.Equal(t, "", cfg.Notify)
}

func TestSyncFromEnvEmptyOtherVarsFallThrough(t *testing.T) {
	clearEnv(t, allEnvKeys...)
	setRequiredSyncEnv(t)
	t.Setenv(config.EnvLabel, "")
	t.Setenv(config.EnvSyncLevel, "")

	cfg, err := config.SyncFromEnv(nil, config.SyncOverrides{})
	require.NoError(t, err)

	assert.Equal(t, config.DefaultLabel, cfg.Label)
	assert.Equal(t, config.DefaultSyncLevel, cfg.SyncLevel)
}

func TestSyncFromEnvExtraFlags(t *testing.T) {
	clearEnv(t, allEnvKeys...)
	setRequiredSyncEnv(t)
	t.Setenv(config.EnvExtraFlags, `--verbose --deadline "2026-01-01 00:00"`)

	cfg, err := config.SyncFromEnv(nil, config.SyncOverrides{})
	require.NoError(t, err)

	assert.Equal(t, []string{"--verbose", "--deadline", "2026-01-01 00:00"}, cfg.ExtraFlags)
}

func TestSyncFromEnvExtraFlagsMalformed(t *testing.T) {
	clearEnv(t, allEnvKeys...)
	setRequiredSyncEnv(t)
	t.Setenv(config.EnvExtraFlags, `"unterminated`)

	_, err := config.SyncFromEnv(nil, config.SyncOverrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvExtraFlags)
}

func TestSyncFromEnvInvalidValueRejected(t *testing.T) {
	clearEnv(t, allEnvKeys...)
	setRequiredSyncEnv(t)
	t.Setenv(config.EnvSyncLevel, "hourly")

	_, err := config.SyncFromEnv(nil, config.SyncOverrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sync level")
}

func TestReshapeFromEnv(t *testing.T) {
	clearEnv(t, allEnvKeys...)
	t.Setenv(config.EnvBasePath, "/srv/actigraphy")

	cfg, err := config.ReshapeFromEnv(nil, config.ReshapeOverrides{})
	require.NoError(t, err)

	assert.Equal(t, "/srv/actigraphy", cfg.BasePath)
	assert.True(t, cfg.DryRun, "reshape must default to dry-run")
	assert.False(t, cfg.HandleZip)
	assert.False(t, cfg.Verify)
}

func TestReshapeFromEnvOverrides(t *testing.T) {
	clearEnv(t, allEnvKeys...)

	cfg, err := config.ReshapeFromEnv(nil, config.ReshapeOverrides{
		BasePath:  config.Set("/elsewhere"),
		DryRun:    config.Set(false),
		HandleZip: config.Set(true),
		Verify:    config.Set(true),
	})
	require.NoError(t, err)

	assert.Equal(t, "/elsewhere", cfg.BasePath)
	assert.False(t, cfg.DryRun)
	assert.True(t, cfg.HandleZip)
	assert.True(t, cfg.Verify)
}

func TestReshapeFromEnvMissingBasePath(t *testing.T) {
	clearEnv(t, allEnvKeys...)

	_, err := config.ReshapeFromEnv(nil, config.ReshapeOverrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvBasePath)
}
