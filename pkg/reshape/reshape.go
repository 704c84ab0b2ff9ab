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
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/globusrc/pkg/config"
)

// 🗂️ Fixed subtree names beneath the base directory
const (
	SourceDirName = "ne-dump"
	TargetDirName = "act-int-test"
)

// 📊 Outcome represents what happened (or would happen) to one mapping
type Outcome int

const (
	OutcomeWouldCopy Outcome = iota // Dry-run, destination absent
	OutcomeCopied                   // Apply mode, bytes written
	OutcomeSkipped                  // Destination already exists
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeWouldCopy:
		return "would copy"
	case OutcomeCopied:
		return "copied"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// 🔍 Verification holds the checksum comparison for a skipped pair
type Verification struct {
	SourceSum uint64 // xxhash64 of the source file
	DestSum   uint64 // xxhash64 of the existing destination
	Match     bool   // Whether the two sides are byte-identical
}

// 📄 Mapping is one (source, destination) pair produced by the conventions
type Mapping struct {
	Source      string        // Absolute source path
	Destination string        // Absolute destination path
	Subject     string        // Subject identifier parsed from the source
	Session     string        // Session identifier parsed from the source
	Outcome     Outcome       // What the run did with the pair
	Verified    *Verification // Set for skipped pairs when verification is on
}

// 📦 ArchiveEntry is one entry of a discovered archive with its would-be
// extraction target.
type ArchiveEntry struct {
	Name   string // Entry name inside the archive
	Target string // Absolute path the entry lands at post-extraction
	Dir    bool   // Whether the entry is a directory
	Size   uint64 // Uncompressed size in bytes
}

// 📦 ArchiveReport describes what archive handling found and did
type ArchiveReport struct {
	Path      string         // Absolute path of the archive file
	Entries   []ArchiveEntry // Dry-run preview of the archive contents
	Extracted int            // Entries written in apply mode
}

// 📈 Result is the complete outcome of one run
type Result struct {
	SourceDir string         // Resolved source subtree
	TargetDir string         // Resolved target subtree
	Archive   *ArchiveReport // Nil when archive handling was off or found nothing
	Mappings  []Mapping      // Every recognized pair, in deterministic order
}

// Copied returns the pairs whose bytes were written this run.
func (r *Result) Copied() []Mapping {
	return r.filter(OutcomeCopied)
}

// Skipped returns the pairs whose destination already existed.
func (r *Result) Skipped() []Mapping {
	return r.filter(OutcomeSkipped)
}

func (r *Result) filter(outcome Outcome) []Mapping {
	var out []Mapping
	for _, m := range r.Mappings {
		if m.Outcome == outcome {
			out = append(out, m)
		}
	}
	return out
}

// 🏃 Run executes one reshape pass: resolve the source subtree, optionally
// handle a single archive, enumerate candidates, map them to destinations and
// copy (or, in dry-run mode, only report). The sequence is strictly linear;
// any failure aborts the whole run.
func Run(ctx context.Context, cfg *config.Reshape) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	base, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, errors.Errorf("resolving base path: %w", err)
	}
	if info, err := os.Stat(base); err != nil || !info.IsDir() {
		return nil, errors.Errorf("base directory does not exist: %s", base)
	}

	sourceDir := filepath.Join(base, SourceDirName)
	targetDir := filepath.Join(base, TargetDirName)
	if info, err := os.Stat(sourceDir); err != nil || !info.IsDir() {
		return nil, errors.Errorf("missing source directory: %s", sourceDir)
	}

	logger.Info().
		Str("source", sourceDir).
		Str("target", targetDir).
		Bool("dry_run", cfg.DryRun).
		Msg("starting reshape run")

	result := &Result{SourceDir: sourceDir, TargetDir: targetDir}

	if cfg.HandleZip {
		report, err := handleArchive(ctx, sourceDir, cfg.DryRun)
		if err != nil {
			return nil, err
		}
		result.Archive = report
	}

	rels, err := enumerate(ctx, sourceDir)
	if err != nil {
		return nil, err
	}

	for _, rel := range rels {
		m, ok := mapCandidate(sourceDir, targetDir, rel)
		if !ok {
			logger.Debug().Str("file", rel).Msg("file matches no layout convention, ignoring")
			continue
		}
		result.Mappings = append(result.Mappings, m)
	}

	for i := range result.Mappings {
		m := &result.Mappings[i]

		exists, err := destinationExists(m.Destination)
		if err != nil {
			return nil, err
		}

		switch {
		case exists:
			m.Outcome = OutcomeSkipped
			logger.Debug().Str("destination", m.Destination).Msg("destination exists, skipping")
			if cfg.Verify {
				v, err := verifyPair(m.Source, m.Destination)
				if err != nil {
					return nil, errors.Errorf("verifying %s: %w", m.Destination, err)
				}
				m.Verified = v
			}
		case cfg.DryRun:
			m.Outcome = OutcomeWouldCopy
		default:
			if err := copyFresh(ctx, m.Source, m.Destination); err != nil {
				return nil, errors.Errorf("copying %s: %w", m.Source, err)
			}
			m.Outcome = OutcomeCopied
		}
	}

	logger.Info().
		Int("pairs", len(result.Mappings)).
		Int("copied", len(result.Copied())).
		Int("skipped", len(result.Skipped())).
		Msg("reshape run complete")

	return result, nil
}

// destinationExists treats any stat-able path as present. The skip policy is
// deliberate: never overwrite, even when the existing content differs.
func destinationExists(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return true, nil
	} else if os.IsNotExist(err) {
		return false, nil
	} else {
		return false, errors.Errorf("checking destination %s: %w", path, err)
	}
}
