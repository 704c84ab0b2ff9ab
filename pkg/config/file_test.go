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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/globusrc/pkg/config"
)

func testContext(t *testing.T) context.Context {
	t.Helper()

	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// chdir switches the working directory for one test; LoadFile probes the
// working directory when no explicit path is given.
func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadFileYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
sync:
  source_endpoint: aaaa1111-1111-1111-1111-111111111111
  dest_endpoint: bbbb2222-2222-2222-2222-222222222222
  dest_path: /data/incoming
  label: weekly dump
  preserve_mtime: false
  extra_flags:
    - --verbose
reshape:
  base_path: /srv/actigraphy
  handle_zip: true
`)

	cfg, err := config.LoadFile(testContext(t), path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.NotNil(t, cfg.Sync)
	assert.Equal(t, "aaaa1111-1111-1111-1111-111111111111", cfg.Sync.SourceEndpoint)
	assert.Equal(t, "bbbb2222-2222-2222-2222-222222222222", cfg.Sync.DestEndpoint)
	assert.Equal(t, "/data/incoming", cfg.Sync.DestPath)
	assert.Equal(t, "weekly dump", cfg.Sync.Label)
	require.NotNil(t, cfg.Sync.PreserveMtime)
	assert.False(t, *cfg.Sync.PreserveMtime)
	assert.Equal(t, []string{"--verbose"}, cfg.Sync.ExtraFlags)

	require.NotNil(t, cfg.Reshape)
	assert.Equal(t, "/srv/actigraphy", cfg.Reshape.BasePath)
	require.NotNil(t, cfg.Reshape.HandleZip)
	assert.True(t, *cfg.Reshape.HandleZip)
}

func TestLoadFileYAMLRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
sync:
  endpoint: looks-plausible-but-wrong
`)

	_, err := config.LoadFile(testContext(t), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing YAML")
}

func TestLoadFileHCL(t *testing.T) {
	path := writeConfig(t, "config.hcl", `
sync {
  source_endpoint = "aaaa1111-1111-1111-1111-111111111111"
  dest_path       = "/data/incoming"
  extra_flags     = ["--verbose", "--skip-source-errors"]
  preserve_mtime  = false
}

reshape {
  base_path = "/srv/actigraphy"
  dry_run   = false
}
`)

	cfg, err := config.LoadFile(testContext(t), path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.NotNil(t, cfg.Sync)
	assert.Equal(t, "aaaa1111-1111-1111-1111-111111111111", cfg.Sync.SourceEndpoint)
	assert.Equal(t, "/data/incoming", cfg.Sync.DestPath)
	assert.Equal(t, []string{"--verbose", "--skip-source-errors"}, cfg.Sync.ExtraFlags)
	require.NotNil(t, cfg.Sync.PreserveMtime)
	assert.False(t, *cfg.Sync.PreserveMtime)

	require.NotNil(t, cfg.Reshape)
	assert.Equal(t, "/srv/actigraphy", cfg.Reshape.BasePath)
	require.NotNil(t, cfg.Reshape.DryRun)
	assert.False(t, *cfg.Reshape.DryRun)
}

func TestLoadFileHCLUnknownAttribute(t *testing.T) {
	path := writeConfig(t, "config.hcl", `
sync {
  bogus = true
}
`)

	_, err := config.LoadFile(testContext(t), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding HCL")
}

func TestLoadFileHCLBadSyntax(t *testing.T) {
	path := writeConfig(t, "config.hcl", `sync {`)

	_, err := config.LoadFile(testContext(t), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing HCL")
}

func TestLoadFileExplicitPathMissing(t *testing.T) {
	_, err := config.LoadFile(testContext(t), filepath.Join(t.TempDir(), "missing.hcl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoadFileNoDefaultPresent(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.LoadFile(testContext(t), "")
	require.NoError(t, err)
	assert.Nil(t, cfg, "absence of a config file is not an error")
}

func TestLoadFileProbesDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".globusrc.yaml"), []byte(`
sync:
  label: from default file
`), 0644))
	chdir(t, dir)

	cfg, err := config.LoadFile(testContext(t), "")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.NotNil(t, cfg.Sync)
	assert.Equal(t, "from default file", cfg.Sync.Label)
}

func TestLoadFilePrefersHCLDefault(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".globusrc.hcl"), []byte(`
sync {
  label = "from hcl"
}
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".globusrc.yaml"), []byte(`
sync:
  label: from yaml
`), 0644))
	chdir(t, dir)

	cfg, err := config.LoadFile(testContext(t), "")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.NotNil(t, cfg.Sync)
	assert.Equal(t, "from hcl", cfg.Sync.Label)
}
