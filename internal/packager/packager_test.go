package packager

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/underrout/callisto-release/internal/foundation/errors"
)

func tree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func TestCreateSkeleton(t *testing.T) {
	root := filepath.Join(t.TempDir(), "callisto-v0.2.4")
	dirs := []string{"asar/v1.81/32-bit", "asar/v1.81/64-bit", "asar/v1.91/32-bit", "asar/v1.91/64-bit", "documentation"}

	require.NoError(t, CreateSkeleton(root, dirs))
	for _, d := range dirs {
		assert.DirExists(t, filepath.Join(root, filepath.FromSlash(d)))
	}
	// Idempotent on an existing tree.
	require.NoError(t, CreateSkeleton(root, dirs))
}

func TestCreateSkeletonRejectsEscapingDir(t *testing.T) {
	err := CreateSkeleton(filepath.Join(t.TempDir(), "pkg"), []string{"../outside"})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryPackaging))
}

func TestPrepare(t *testing.T) {
	root := filepath.Join(t.TempDir(), "callisto-v0.2.4")

	removed, err := Prepare(root, true)
	require.NoError(t, err)
	assert.False(t, removed)

	tree(t, root, map[string]string{"callisto.exe": "old"})
	_, err = Prepare(root, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryPackaging))
	assert.FileExists(t, filepath.Join(root, "callisto.exe"))

	removed, err = Prepare(root, true)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NoDirExists(t, root)
}

func TestArchiveMatchesTree(t *testing.T) {
	work := t.TempDir()
	root := filepath.Join(work, "callisto-v0.2.4")
	files := map[string]string{
		"callisto.exe":               "exe",
		"asar/v1.81/32-bit/asar.dll": "dll32",
		"documentation/usage.html":   "<p>usage</p>",
		"documentation/images/a.png": "png",
		"initial_patches/readme.txt": "patches",
	}
	tree(t, root, files)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "config"), 0o755))
	archive := filepath.Join(work, "callisto-v0.2.4.zip")

	stats, err := Archive(root, archive)
	require.NoError(t, err)
	assert.Equal(t, len(files), stats.Files)

	r, err := zip.OpenReader(archive)
	require.NoError(t, err)
	defer r.Close()

	got := map[string]string{}
	var dirs []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			dirs = append(dirs, f.Name)
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		got[f.Name] = string(data)
	}
	assert.Equal(t, files, got)
	assert.Contains(t, dirs, "config/")
	assert.Equal(t, stats.Dirs, len(dirs))

	// No temporary files left beside the archive.
	entries, err := os.ReadDir(work)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	assert.Equal(t, []string{"callisto-v0.2.4", "callisto-v0.2.4.zip"}, names)
}

func TestArchiveRejectsPathInsideRoot(t *testing.T) {
	root := t.TempDir()
	tree(t, root, map[string]string{"callisto.exe": "exe"})

	_, err := Archive(root, filepath.Join(root, "self.zip"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryPackaging))
}

func TestArchiveMissingRoot(t *testing.T) {
	work := t.TempDir()
	_, err := Archive(filepath.Join(work, "absent"), filepath.Join(work, "out.zip"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryPackaging))
	assert.NoFileExists(t, filepath.Join(work, "out.zip"))
}

func TestEntries(t *testing.T) {
	work := t.TempDir()
	root := filepath.Join(work, "pkg")
	tree(t, root, map[string]string{"b.txt": "b", "a/c.txt": "c"})
	archive := filepath.Join(work, "pkg.zip")
	_, err := Archive(root, archive)
	require.NoError(t, err)

	names, err := Entries(archive)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/", "a/c.txt", "b.txt"}, names)
}
