package docs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/underrout/callisto-release/internal/foundation/errors"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func TestDiscoverPages(t *testing.T) {
	in := t.TempDir()
	writeFiles(t, in, map[string]string{
		"usage.md":              "# Usage",
		"installing.md":         "# Installing",
		"getting-started.md":    "# Start",
		"_Sidebar.md":           "sidebar",
		"notes.txt":             "not a page",
		"images/screenshot.png": "png",
		"drafts.md/inner.md":    "a folder named like a page",
	})

	pages, err := DiscoverPages(in, "/out", ".md")
	require.NoError(t, err)

	names := make([]string, 0, len(pages))
	for _, p := range pages {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"getting-started", "installing", "usage"}, names)
	assert.Equal(t, "getting started", pages[0].Title)
	assert.Equal(t, filepath.Join(in, "installing.md"), pages[1].SourcePath)
	assert.Equal(t, filepath.Join("/out", "installing.html"), pages[1].OutputPath)
}

func TestDiscoverPagesMissingFolder(t *testing.T) {
	_, err := DiscoverPages(filepath.Join(t.TempDir(), "absent"), t.TempDir(), ".md")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryDocConversion))
}

func TestTitleFor(t *testing.T) {
	assert.Equal(t, "Home", TitleFor("Home"))
	assert.Equal(t, "Build system   setup", TitleFor("Build-system---setup"))
}

func TestPageNames(t *testing.T) {
	names := PageNames([]Page{{Name: "usage"}, {Name: "installing"}})
	assert.Len(t, names, 2)
	assert.Contains(t, names, "usage")
}
