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

package reshape

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// exportPattern matches filename-coded exports: export_sub<S>_sess<E>.csv.
var exportPattern = regexp.MustCompile(`^export_sub([A-Za-z0-9]+)_sess([A-Za-z0-9]+)\.csv$`)

// Instrument-dump layouts code the session into a directory, not the
// filename: either a dump folder above the subject folder (A1..A4) or a
// firmware version folder below it (v0/v3/v5).
var (
	dumpSessions    = map[string]string{"A1": "1", "A2": "2", "A3": "3", "A4": "4"}
	versionSessions = map[string]string{"v0": "1", "v3": "2", "v5": "3"}
)

// actigraphySuffix marks per-subject instrument folders, e.g. S017_Actigraphy.
const actigraphySuffix = "_Actigraphy"

// candidateGlobs pre-filter the walk; mapCandidate stays authoritative for
// whether a file really belongs to a convention.
var candidateGlobs = []string{
	"**/export_sub*_sess*.csv",
	"**/*RAW.csv",
}

// 🔍 enumerate walks the source subtree and returns the candidate files as
// sorted slash-separated paths relative to it. Sorting keeps runs
// deterministic regardless of filesystem order.
func enumerate(ctx context.Context, sourceDir string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	var rels []string
	walkErr := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, pattern := range candidateGlobs {
			matched, err := doublestar.Match(pattern, rel)
			if err != nil {
				logger.Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
				continue
			}
			if matched {
				rels = append(rels, rel)
				break
			}
		}
		return nil
	})
	if walkErr != nil {
		return nil, errors.Errorf("scanning source directory: %w", walkErr)
	}

	sort.Strings(rels)
	logger.Debug().Int("candidates", len(rels)).Msg("enumerated candidate files")
	return rels, nil
}

// 🗺️ mapCandidate computes the destination for one candidate. The mapping is
// a pure function of the relative path: the same input always yields the same
// destination. Files matching no convention report ok=false and are ignored
// by the caller.
func mapCandidate(sourceDir, targetDir, rel string) (Mapping, bool) {
	name := filepath.Base(filepath.FromSlash(rel))

	if m := exportPattern.FindStringSubmatch(name); m != nil {
		subject, session := m[1], m[2]
		return Mapping{
			Source:      filepath.Join(sourceDir, filepath.FromSlash(rel)),
			Destination: filepath.Join(targetDir, "sub-"+subject, "sess-"+session, name),
			Subject:     subject,
			Session:     session,
		}, true
	}

	if strings.HasSuffix(name, "RAW.csv") {
		return mapActigraphy(sourceDir, targetDir, rel)
	}

	return Mapping{}, false
}

// mapActigraphy handles the directory-coded instrument layouts. The subject
// comes from the *_Actigraphy folder; the session from the dump folder above
// it (preferred) or the version folder below it.
func mapActigraphy(sourceDir, targetDir, rel string) (Mapping, bool) {
	segs := strings.Split(rel, "/")
	if len(segs) < 2 {
		return Mapping{}, false
	}

	subjectIdx := -1
	for i := 0; i < len(segs)-1; i++ {
		if strings.HasSuffix(segs[i], actigraphySuffix) {
			subjectIdx = i
			break
		}
	}
	if subjectIdx == -1 {
		return Mapping{}, false
	}

	subject := strings.TrimSuffix(segs[subjectIdx], actigraphySuffix)
	if subject == "" {
		return Mapping{}, false
	}

	var session string
	if subjectIdx > 0 {
		session = dumpSessions[segs[subjectIdx-1]]
	}
	if session == "" && subjectIdx+1 < len(segs)-1 {
		session = versionSessions[segs[subjectIdx+1]]
	}
	if session == "" {
		return Mapping{}, false
	}

	destName := fmt.Sprintf("sub-%s_ses-%s_accel.csv", subject, session)
	return Mapping{
		Source:      filepath.Join(sourceDir, filepath.FromSlash(rel)),
		Destination: filepath.Join(targetDir, "sub-"+subject, "accel", "ses-"+session, destName),
		Subject:     subject,
		Session:     session,
	}, true
}
