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

// 📦 package opts carries options shared by every subcommand
package opts

import (
	"context"

	"github.com/walteh/globusrc/pkg/config"
)

// 🎯 RootOpts contains shared options used by all commands
type RootOpts struct {
	// ConfigPath points at the root --config flag variable so commands
	// read the value as parsed, not as defaulted at construction time.
	ConfigPath *string
}

// 📄 LoadFile loads the optional config file named by the root flag
func (o *RootOpts) LoadFile(ctx context.Context) (*config.File, error) {
	path := ""
	if o.ConfigPath != nil {
		path = *o.ConfigPath
	}

	return config.LoadFile(ctx, path)
}
