// Package packager owns the release package tree: it lays out the skeleton before any build
// step and zips the finished tree as the final step.
package packager

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/underrout/callisto-release/internal/foundation/errors"
)

// Prepare clears a previous package tree at root when replace is set. An existing tree without
// replace is an error so two runs never mix their outputs.
func Prepare(root string, replace bool) (removed bool, err error) {
	if _, statErr := os.Stat(root); statErr != nil {
		if os.IsNotExist(statErr) {
			return false, nil
		}
		return false, packagingError(statErr, "failed to inspect package root", root)
	}
	if !replace {
		return false, errors.PackagingError("package root already exists").
			WithContext("path", root).
			Build()
	}
	if err := os.RemoveAll(root); err != nil {
		return false, packagingError(err, "failed to remove previous package root", root)
	}
	return true, nil
}

// CreateSkeleton creates root and every dir (relative to root).
func CreateSkeleton(root string, dirs []string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return packagingError(err, "failed to create package root", root)
	}
	for _, dir := range dirs {
		full := filepath.Join(root, filepath.FromSlash(dir))
		if !within(root, full) {
			return errors.PackagingError("skeleton directory escapes package root").
				WithContext("path", dir).
				Build()
		}
		if err := os.MkdirAll(full, 0o755); err != nil {
			return packagingError(err, "failed to create package directory", full)
		}
	}
	return nil
}

// Stats summarizes a written archive.
type Stats struct {
	Files int
	Dirs  int
	Bytes int64
}

// Archive zips the tree under root into archivePath. Entry names are relative to root. The
// archive is written to a temporary file beside archivePath and renamed into place, so a
// failed run never leaves a truncated zip under the final name.
func Archive(root, archivePath string) (Stats, error) {
	var stats Stats
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is not a directory", root)
		}
		return stats, packagingError(err, "package root missing", root)
	}
	absArchive, err := filepath.Abs(archivePath)
	if err != nil {
		return stats, packagingError(err, "failed to resolve archive path", archivePath)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return stats, packagingError(err, "failed to resolve package root", root)
	}
	if within(absRoot, absArchive) {
		return stats, errors.PackagingError("archive must be written outside the package root").
			WithContext("path", absArchive).
			Build()
	}
	if err := os.MkdirAll(filepath.Dir(absArchive), 0o755); err != nil {
		return stats, packagingError(err, "failed to create archive folder", absArchive)
	}

	tmp, err := os.CreateTemp(filepath.Dir(absArchive), "."+filepath.Base(absArchive)+"-*.tmp")
	if err != nil {
		return stats, packagingError(err, "failed to create temporary archive", absArchive)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	stats, err = writeZip(tmp, absRoot)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		return stats, packagingError(err, "failed to write archive", absArchive)
	}
	if err := os.Rename(tmpPath, absArchive); err != nil {
		return stats, packagingError(err, "failed to move archive into place", absArchive)
	}
	committed = true
	return stats, nil
}

func writeZip(w io.Writer, root string) (stats Stats, err error) {
	zw := zip.NewWriter(w)
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)

		fi, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		header, headerErr := zip.FileInfoHeader(fi)
		if headerErr != nil {
			return headerErr
		}

		if d.IsDir() {
			header.Name = name + "/"
			header.Method = zip.Store
			if _, createErr := zw.CreateHeader(header); createErr != nil {
				return fmt.Errorf("directory entry %s: %w", name, createErr)
			}
			stats.Dirs++
			return nil
		}
		if !fi.Mode().IsRegular() {
			return fmt.Errorf("%s is not a regular file", name)
		}

		header.Name = name
		header.Method = zip.Deflate
		entry, createErr := zw.CreateHeader(header)
		if createErr != nil {
			return fmt.Errorf("file entry %s: %w", name, createErr)
		}
		f, openErr := os.Open(filepath.Clean(path))
		if openErr != nil {
			return openErr
		}
		n, copyErr := io.Copy(entry, f)
		_ = f.Close()
		if copyErr != nil {
			return fmt.Errorf("file entry %s: %w", name, copyErr)
		}
		stats.Files++
		stats.Bytes += n
		return nil
	})
	return stats, err
}

// Entries lists the entry names of a zip archive in stored order.
func Entries(archivePath string) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, packagingError(err, "failed to open archive", archivePath)
	}
	defer func() { _ = r.Close() }()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func packagingError(err error, msg, path string) error {
	return errors.WrapError(err, errors.CategoryPackaging, msg).
		Fatal().
		WithContext("path", path).
		Build()
}
