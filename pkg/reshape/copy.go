package reshape

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📤 copyFresh copies source bytes to a destination that is known not to
// exist yet. Parent directories are created as needed; the destination gets
// fresh default permissions, never the source's metadata or timestamps.
func copyFresh(ctx context.Context, src, dst string) error {
	logger := zerolog.Ctx(ctx)

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}
	if err := copyFileAtomic(src, dst); err != nil {
		return err
	}

	logger.Debug().Str("source", src).Str("destination", dst).Msg("copied file")
	return nil
}

// copyFileAtomic streams src into a temp file and renames it into place, so
// an interrupted run never leaves a partial destination that a later run
// would skip over.
func copyFileAtomic(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer in.Close()

	tempPath := dst + ".tmp"
	out, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tempPath)
		return errors.Errorf("copying file content: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, dst); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// 🔍 verifyPair checksums both sides of a skipped pair. Purely read-only; the
// skip decision stands regardless of the outcome, verification only reports.
func verifyPair(src, dst string) (*Verification, error) {
	srcSum, err := hashFile(src)
	if err != nil {
		return nil, err
	}
	dstSum, err := hashFile(dst)
	if err != nil {
		return nil, err
	}
	return &Verification{
		SourceSum: srcSum,
		DestSum:   dstSum,
		Match:     srcSum == dstSum,
	}, nil
}

func hashFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Errorf("opening file for checksum: %w", err)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, errors.Errorf("hashing file: %w", err)
	}
	return h.Sum64(), nil
}
