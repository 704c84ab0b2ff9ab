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
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// archiveExtensions are matched case-insensitively; instrument vendors are
// not consistent about casing.
var archiveExtensions = []string{".zip"}

func isArchiveName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range archiveExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// 📦 handleArchive applies the single-archive policy to the direct children
// of the source subtree. A pre-existing directory aborts before anything is
// opened: it means a previous extraction already happened and must not be
// overwritten. Zero archives is fine; more than one is an error naming all
// of them.
func handleArchive(ctx context.Context, sourceDir string, dryRun bool) (*ArchiveReport, error) {
	logger := zerolog.Ctx(ctx)

	children, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, errors.Errorf("reading source directory: %w", err)
	}

	var archives, dirs []string
	for _, child := range children {
		if child.IsDir() {
			dirs = append(dirs, child.Name())
			continue
		}
		if isArchiveName(child.Name()) {
			archives = append(archives, child.Name())
		}
	}

	if len(dirs) > 0 {
		return nil, errors.Errorf("refusing archive handling, directory already present: %s",
			filepath.Join(sourceDir, dirs[0]))
	}

	switch len(archives) {
	case 0:
		logger.Info().Str("source", sourceDir).Msg("no archive found, continuing")
		return nil, nil
	case 1:
		archivePath := filepath.Join(sourceDir, archives[0])
		if dryRun {
			return previewArchive(ctx, archivePath, sourceDir)
		}
		return extractArchive(ctx, archivePath, sourceDir)
	default:
		return nil, errors.Errorf("multiple archives found under %s: %s",
			sourceDir, strings.Join(archives, ", "))
	}
}

// 🔍 previewArchive enumerates the archive without writing anything, pairing
// each entry with the path it would occupy after extraction.
func previewArchive(ctx context.Context, archivePath, sourceDir string) (*ArchiveReport, error) {
	logger := zerolog.Ctx(ctx)

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, errors.Errorf("opening archive %s: %w", archivePath, err)
	}
	defer reader.Close()

	report := &ArchiveReport{Path: archivePath}
	for _, f := range reader.File {
		target, err := entryTarget(sourceDir, f.Name)
		if err != nil {
			return nil, err
		}
		report.Entries = append(report.Entries, ArchiveEntry{
			Name:   f.Name,
			Target: target,
			Dir:    f.FileInfo().IsDir(),
			Size:   f.UncompressedSize64,
		})
	}

	logger.Info().Str("archive", archivePath).Int("entries", len(report.Entries)).Msg("previewed archive contents")
	return report, nil
}

// 📤 extractArchive unpacks every entry into the source subtree. The archive
// file itself stays where it is. Any entry failure aborts the run; a partial
// extraction is never accepted as success.
func extractArchive(ctx context.Context, archivePath, sourceDir string) (*ArchiveReport, error) {
	logger := zerolog.Ctx(ctx)

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, errors.Errorf("opening archive %s: %w", archivePath, err)
	}
	defer reader.Close()

	report := &ArchiveReport{Path: archivePath}
	for _, f := range reader.File {
		target, err := entryTarget(sourceDir, f.Name)
		if err != nil {
			return nil, err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return nil, errors.Errorf("creating directory %s: %w", target, err)
			}
			report.Extracted++
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return nil, errors.Errorf("creating parent directories: %w", err)
		}
		if err := writeEntry(f, target); err != nil {
			return nil, errors.Errorf("extracting %s: %w", f.Name, err)
		}
		report.Extracted++
	}

	logger.Info().Str("archive", archivePath).Int("entries", report.Extracted).Msg("extracted archive in place")
	return report, nil
}

// entryTarget resolves an entry name inside the extraction root, rejecting
// absolute names and anything that climbs out of it.
func entryTarget(sourceDir, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(os.PathSeparator)) {
		return "", errors.Errorf("archive entry escapes extraction root: %s", name)
	}
	return filepath.Join(sourceDir, clean), nil
}

func writeEntry(f *zip.File, target string) error {
	src, err := f.Open()
	if err != nil {
		return errors.Errorf("opening entry: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Errorf("creating file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return errors.Errorf("writing file content: %w", err)
	}
	if err := dst.Close(); err != nil {
		return errors.Errorf("closing file: %w", err)
	}
	return nil
}
