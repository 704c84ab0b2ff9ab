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

package config

import (
	"bytes"
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 📝 File is the on-disk configuration (supports YAML and HCL). Every field
// is optional; the file only supplies values below flags and environment.
type File struct {
	Sync    *SyncBlock    `json:"sync,omitempty" hcl:"sync,block" yaml:"sync,omitempty"`
	Reshape *ReshapeBlock `json:"reshape,omitempty" hcl:"reshape,block" yaml:"reshape,omitempty"`
}

// 🎯 SyncBlock mirrors the transfer-flow fields. Pointer fields distinguish
// "absent" from an explicit false/empty.
type SyncBlock struct {
	SourceEndpoint string   `json:"source_endpoint,omitempty" hcl:"source_endpoint,optional" yaml:"source_endpoint,omitempty"`
	DestEndpoint   string   `json:"dest_endpoint,omitempty" hcl:"dest_endpoint,optional" yaml:"dest_endpoint,omitempty"`
	SourcePath     string   `json:"source_path,omitempty" hcl:"source_path,optional" yaml:"source_path,omitempty"`
	DestPath       string   `json:"dest_path,omitempty" hcl:"dest_path,optional" yaml:"dest_path,omitempty"`
	Label          string   `json:"label,omitempty" hcl:"label,optional" yaml:"label,omitempty"`
	SyncLevel      string   `json:"sync_level,omitempty" hcl:"sync_level,optional" yaml:"sync_level,omitempty"`
	Notify         *string  `json:"notify,omitempty" hcl:"notify,optional" yaml:"notify,omitempty"`
	PreserveMtime  *bool    `json:"preserve_mtime,omitempty" hcl:"preserve_mtime,optional" yaml:"preserve_mtime,omitempty"`
	DryRun         *bool    `json:"dry_run,omitempty" hcl:"dry_run,optional" yaml:"dry_run,omitempty"`
	ExtraFlags     []string `json:"extra_flags,omitempty" hcl:"extra_flags,optional" yaml:"extra_flags,omitempty"`
	CLI            string   `json:"cli,omitempty" hcl:"cli,optional" yaml:"cli,omitempty"`
}

// 🗂️ ReshapeBlock mirrors the reshape-flow fields.
type ReshapeBlock struct {
	BasePath  string `json:"base_path,omitempty" hcl:"base_path,optional" yaml:"base_path,omitempty"`
	DryRun    *bool  `json:"dry_run,omitempty" hcl:"dry_run,optional" yaml:"dry_run,omitempty"`
	HandleZip *bool  `json:"handle_zip,omitempty" hcl:"handle_zip,optional" yaml:"handle_zip,omitempty"`
	Verify    *bool  `json:"verify,omitempty" hcl:"verify,optional" yaml:"verify,omitempty"`
}

// candidateFiles are probed in order when no explicit --config is given.
var candidateFiles = []string{".globusrc.hcl", ".globusrc.yaml", ".globusrc.yml"}

// 🎯 LoadFile loads the optional configuration file. An empty path probes the
// working directory for the default names and returns (nil, nil) when none
// exist; an explicit path that cannot be read is an error.
func LoadFile(ctx context.Context, path string) (*File, error) {
	logger := zerolog.Ctx(ctx)

	if path == "" {
		for _, candidate := range candidateFiles {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			logger.Debug().Msg("no config file found, using environment only")
			return nil, nil
		}
	}

	logger.Debug().Str("path", path).Msg("loading config file")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Try YAML first
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		var cfg File
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, errors.Errorf("parsing YAML: %w", err)
		}
		return &cfg, nil
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var cfg File
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &cfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return &cfg, nil
}
