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

package globus

import (
	"github.com/kballard/go-shellquote"

	"github.com/walteh/globusrc/pkg/config"
)

// 🧱 BuildArgs assembles the argv for one transfer invocation. Order is part
// of the contract: fixed flags, then conditional flags, then extra flags,
// then the endpoint:path pair for source and destination.
func BuildArgs(cfg *config.Sync) []string {
	args := []string{
		cfg.CLI,
		"transfer",
		"--recursive",
		"--sync-level", cfg.SyncLevel,
		"--label", cfg.Label,
	}
	if cfg.Notify != "" {
		args = append(args, "--notify", cfg.Notify)
	}
	if cfg.PreserveMtime {
		args = append(args, "--preserve-mtime")
	}
	if cfg.DryRun {
		args = append(args, "--dry-run")
	}
	args = append(args, cfg.ExtraFlags...)
	args = append(args,
		cfg.SourceEndpoint+":"+cfg.SourcePath,
		cfg.DestEndpoint+":"+cfg.DestPath,
	)
	return args
}

// 📝 CommandString renders the argv as a single copy-pasteable shell line,
// quoting any word a POSIX shell would mangle.
func CommandString(cfg *config.Sync) string {
	return shellquote.Join(BuildArgs(cfg)...)
}
