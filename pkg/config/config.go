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
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🎛️ Built-in defaults for the transfer flow
const (
	DefaultSourcePath = "/"
	DefaultLabel      = "NEU to UI sync"
	DefaultSyncLevel  = "mtime"
	DefaultNotify     = "on"
	DefaultCLI        = "globus"
)

// 🎯 Sync is the full configuration for one transfer invocation. It is built
// once per process (flags > environment > config file > defaults) and never
// mutated afterward.
type Sync struct {
	SourceEndpoint string   // Source endpoint UUID
	DestEndpoint   string   // Destination endpoint UUID
	SourcePath     string   // Path on the source endpoint
	DestPath       string   // Path on the destination endpoint, must be absolute
	Label          string   // Task label shown by the transfer service
	SyncLevel      string   // exists, size, mtime or checksum
	Notify         string   // on, off, failed; empty omits the flag entirely
	PreserveMtime  bool     // Keep source modification times on the far side
	DryRun         bool     // Ask the external tool to only report actions
	ExtraFlags     []string // Extra argv entries, already split into words
	CLI            string   // Executable name or path of the external tool
}

// 🗂️ Reshape is the configuration for one reshape run.
type Reshape struct {
	BasePath  string // Directory holding the ne-dump and act-int-test subtrees
	DryRun    bool   // Report the plan without touching the filesystem
	HandleZip bool   // Enable single-archive detection and extraction
	Verify    bool   // Checksum-compare pairs whose destination already exists
}

// syncLevels are the values the external tool accepts for --sync-level.
var syncLevels = []string{"exists", "size", "mtime", "checksum"}

// notifyModes are the values accepted for --notify. Empty is also valid and
// means the flag is omitted from the assembled command.
var notifyModes = []string{"on", "off", "failed"}

// 🔍 Validate checks required fields and value choices. It runs at
// construction time, before anything is shown or executed, so a bad
// configuration never reaches the external tool.
func (c *Sync) Validate() error {
	if c.SourceEndpoint == "" {
		return errors.Errorf("missing required globus configuration: source endpoint (set %s)", EnvSourceEndpoint)
	}
	if c.DestEndpoint == "" {
		return errors.Errorf("missing required globus configuration: destination endpoint (set %s)", EnvDestEndpoint)
	}
	if c.DestPath == "" {
		return errors.Errorf("missing required globus configuration: destination path (set %s)", EnvDestPath)
	}
	if !strings.HasPrefix(c.DestPath, "/") {
		return errors.Errorf("destination path must be absolute, got %q", c.DestPath)
	}
	if !contains(syncLevels, c.SyncLevel) {
		return errors.Errorf("invalid sync level %q (choose from %s)", c.SyncLevel, strings.Join(syncLevels, ", "))
	}
	if c.Notify != "" && !contains(notifyModes, c.Notify) {
		return errors.Errorf("invalid notify mode %q (choose from %s)", c.Notify, strings.Join(notifyModes, ", "))
	}
	if c.CLI == "" {
		return errors.Errorf("external tool executable must not be empty (set %s)", EnvCLI)
	}
	return nil
}

// 🔍 Validate checks the reshape configuration. Existence of the base
// directory is left to the routine itself so the error can name the resolved
// path.
func (c *Reshape) Validate() error {
	if c.BasePath == "" {
		return errors.Errorf("missing required reshape configuration: base path (set %s or --base-path)", EnvBasePath)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
