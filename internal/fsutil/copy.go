// Package fsutil copies build outputs into the package tree.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Kind reports what a copy source turned out to be.
type Kind int

const (
	KindFile Kind = iota
	KindDir
)

func (k Kind) String() string {
	if k == KindDir {
		return "directory"
	}
	return "file"
}

// CopyPath copies src to dst, choosing the strategy from the source type. A file source
// produces exactly one destination file (parents are created); a directory source is
// merged into dst, so files already present in dst and absent from src survive.
func CopyPath(src, dst string) (Kind, error) {
	info, err := os.Stat(src)
	if err != nil {
		return KindFile, err
	}
	if info.IsDir() {
		return KindDir, CopyDir(src, dst)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return KindFile, err
	}
	return KindFile, CopyFile(src, dst)
}

// CopyDir recursively copies a directory tree, merging into an existing destination.
func CopyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !srcInfo.IsDir() {
		return fmt.Errorf("%s is not a directory", src)
	}

	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := CopyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := CopyFile(srcPath, dstPath); err != nil {
			return err
		}
	}

	return nil
}

// CopyFile copies a single file from src to dst, overwriting dst and keeping the source mode.
func CopyFile(src, dst string) error {
	// #nosec G304 - paths come from release configuration
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}
	if srcInfo.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	if err := dstFile.Close(); err != nil {
		return err
	}

	return os.Chmod(dst, srcInfo.Mode().Perm())
}
