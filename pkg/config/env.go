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
	"os"
	"strings"

	"github.com/kballard/go-shellquote"
	"gitlab.com/tozd/go/errors"
)

// 📋 Environment variables read by the two flows
const (
	EnvSourceEndpoint = "GLOBUS_SOURCE_ENDPOINT"
	EnvDestEndpoint   = "GLOBUS_DEST_ENDPOINT"
	EnvSourcePath     = "GLOBUS_SOURCE_PATH"
	EnvDestPath       = "GLOBUS_DEST_PATH"
	EnvLabel          = "GLOBUS_LABEL"
	EnvSyncLevel      = "GLOBUS_SYNC_LEVEL"
	EnvNotify         = "GLOBUS_NOTIFY"
	EnvPreserveMtime  = "GLOBUS_PRESERVE_MTIME"
	EnvDryRun         = "GLOBUS_DRY_RUN"
	EnvExtraFlags     = "GLOBUS_EXTRA_FLAGS"
	EnvCLI            = "GLOBUS_CLI"
	EnvBasePath       = "BASE_PATH"
	EnvLogLevel       = "GLOBUS_LOG_LEVEL"
	EnvLogFile        = "GLOBUS_LOG_FILE"
)

// 🎚️ Value is an optional override for a single configuration field. The
// zero value is "not set"; construct set values with Set.
type Value[T any] struct {
	value T
	set   bool
}

// Set wraps v as an explicitly-set override.
func Set[T any](v T) Value[T] {
	return Value[T]{value: v, set: true}
}

// IsSet reports whether the override was explicitly provided.
func (v Value[T]) IsSet() bool {
	return v.set
}

// Or returns the override when set, the fallback otherwise.
func (v Value[T]) Or(fallback T) T {
	if v.set {
		return v.value
	}
	return fallback
}

// 🚩 SyncOverrides carries flag-level overrides for the transfer flow. Only
// fields the user actually passed are set, so unset flags fall through to
// environment, file and defaults.
type SyncOverrides struct {
	SourceEndpoint Value[string]
	DestEndpoint   Value[string]
	SourcePath     Value[string]
	DestPath       Value[string]
	Label          Value[string]
	SyncLevel      Value[string]
	Notify         Value[string]
	PreserveMtime  Value[bool]
	DryRun         Value[bool]
	ExtraFlags     Value[[]string]
	CLI            Value[string]
}

// 🚩 ReshapeOverrides carries flag-level overrides for the reshape flow.
type ReshapeOverrides struct {
	BasePath  Value[string]
	DryRun    Value[bool]
	HandleZip Value[bool]
	Verify    Value[bool]
}

// 🏗️ SyncFromEnv assembles and validates a Sync configuration. Precedence per
// field: override flag, then environment variable, then config file value,
// then built-in default. file may be nil.
func SyncFromEnv(file *File, ov SyncOverrides) (*Sync, error) {
	var fb *SyncBlock
	if file != nil {
		fb = file.Sync
	}
	if fb == nil {
		fb = &SyncBlock{}
	}

	extraFlags, err := layerExtraFlags(ov.ExtraFlags, fb.ExtraFlags)
	if err != nil {
		return nil, err
	}

	cfg := &Sync{
		SourceEndpoint: layerString(ov.SourceEndpoint, EnvSourceEndpoint, fb.SourceEndpoint, ""),
		DestEndpoint:   layerString(ov.DestEndpoint, EnvDestEndpoint, fb.DestEndpoint, ""),
		SourcePath:     layerString(ov.SourcePath, EnvSourcePath, fb.SourcePath, DefaultSourcePath),
		DestPath:       layerString(ov.DestPath, EnvDestPath, fb.DestPath, ""),
		Label:          layerString(ov.Label, EnvLabel, fb.Label, DefaultLabel),
		SyncLevel:      layerString(ov.SyncLevel, EnvSyncLevel, fb.SyncLevel, DefaultSyncLevel),
		Notify:         layerNotify(ov.Notify, fb.Notify),
		PreserveMtime:  layerBool(ov.PreserveMtime, EnvPreserveMtime, fb.PreserveMtime, true),
		DryRun:         layerBool(ov.DryRun, EnvDryRun, fb.DryRun, false),
		ExtraFlags:     extraFlags,
		CLI:            layerString(ov.CLI, EnvCLI, fb.CLI, DefaultCLI),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// 🏗️ ReshapeFromEnv assembles and validates a Reshape configuration with the
// same precedence rules as SyncFromEnv.
func ReshapeFromEnv(file *File, ov ReshapeOverrides) (*Reshape, error) {
	var fb *ReshapeBlock
	if file != nil {
		fb = file.Reshape
	}
	if fb == nil {
		fb = &ReshapeBlock{}
	}

	cfg := &Reshape{
		BasePath:  layerString(ov.BasePath, EnvBasePath, fb.BasePath, ""),
		DryRun:    layerBool(ov.DryRun, "", fb.DryRun, true),
		HandleZip: layerBool(ov.HandleZip, "", fb.HandleZip, false),
		Verify:    layerBool(ov.Verify, "", fb.Verify, false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseBool interprets the loose boolean convention used by the GLOBUS_*
// variables: 0, false, no and off (any casing) are false, anything else is
// true.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "false", "no", "off":
		return false
	default:
		return true
	}
}

func layerString(ov Value[string], envKey, fileVal, def string) string {
	if ov.IsSet() {
		return ov.value
	}
	if envKey != "" {
		if v, ok := os.LookupEnv(envKey); ok && v != "" {
			return v
		}
	}
	if fileVal != "" {
		return fileVal
	}
	return def
}

// layerNotify is the one string field where empty is meaningful (omit the
// flag), so a set-but-empty environment variable wins over the default.
func layerNotify(ov Value[string], fileVal *string) string {
	if ov.IsSet() {
		return ov.value
	}
	if v, ok := os.LookupEnv(EnvNotify); ok {
		return v
	}
	if fileVal != nil {
		return *fileVal
	}
	return DefaultNotify
}

func layerBool(ov Value[bool], envKey string, fileVal *bool, def bool) bool {
	if ov.IsSet() {
		return ov.value
	}
	if envKey != "" {
		if v, ok := os.LookupEnv(envKey); ok && v != "" {
			return ParseBool(v)
		}
	}
	if fileVal != nil {
		return *fileVal
	}
	return def
}

func layerExtraFlags(ov Value[[]string], fileVal []string) ([]string, error) {
	if ov.IsSet() {
		return ov.value, nil
	}
	if v, ok := os.LookupEnv(EnvExtraFlags); ok && strings.TrimSpace(v) != "" {
		words, err := shellquote.Split(v)
		if err != nil {
			return nil, errors.Errorf("parsing %s: %w", EnvExtraFlags, err)
		}
		return words, nil
	}
	return fileVal, nil
}
