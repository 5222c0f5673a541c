package helpers

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// FileAssertions checks files below a root (a package tree, an output folder). Paths are
// slash-separated and relative to the root. Failures are reported with t.Errorf semantics so
// a chain keeps going after the first mismatch.
type FileAssertions struct {
	t    *testing.T
	root string
}

// NewFileAssertions creates a new file assertions helper.
func NewFileAssertions(t *testing.T, root string) *FileAssertions {
	return &FileAssertions{t: t, root: root}
}

func (fa *FileAssertions) path(rel string) string {
	return filepath.Join(fa.root, filepath.FromSlash(rel))
}

func (fa *FileAssertions) AssertFileExists(rel string) *FileAssertions {
	fa.t.Helper()
	assert.FileExists(fa.t, fa.path(rel))
	return fa
}

func (fa *FileAssertions) AssertDirExists(rel string) *FileAssertions {
	fa.t.Helper()
	assert.DirExists(fa.t, fa.path(rel))
	return fa
}

// AssertFileContains checks that the file contains substr.
func (fa *FileAssertions) AssertFileContains(rel, substr string) *FileAssertions {
	fa.t.Helper()
	// #nosec G304 - test helper, paths are controlled by test code
	data, err := os.ReadFile(fa.path(rel))
	if assert.NoError(fa.t, err, "read %s", rel) {
		assert.Contains(fa.t, string(data), substr, "content of %s", rel)
	}
	return fa
}

// AssertFileEquals checks the exact file content.
func (fa *FileAssertions) AssertFileEquals(rel, want string) *FileAssertions {
	fa.t.Helper()
	// #nosec G304 - test helper, paths are controlled by test code
	data, err := os.ReadFile(fa.path(rel))
	if assert.NoError(fa.t, err, "read %s", rel) {
		assert.Equal(fa.t, want, string(data), "content of %s", rel)
	}
	return fa
}

// AssertNotExists checks that nothing, file or directory, exists at rel.
func (fa *FileAssertions) AssertNotExists(rel string) *FileAssertions {
	fa.t.Helper()
	assert.NoFileExists(fa.t, fa.path(rel))
	assert.NoDirExists(fa.t, fa.path(rel))
	return fa
}

// ReadTree returns every regular file below root keyed by its slash-separated relative path.
func ReadTree(t *testing.T, root string) map[string]string {
	t.Helper()
	files := map[string]string{}
	require.NoError(t, filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		// #nosec G304 - test helper, paths are controlled by test code
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	}))
	return files
}
