package docs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rewrite(t *testing.T, doc string, known ...string) (string, LinkStats) {
	t.Helper()
	names := map[string]struct{}{}
	for _, k := range known {
		names[k] = struct{}{}
	}
	var out strings.Builder
	stats, err := RewriteDocument(strings.NewReader(doc), &out, names)
	require.NoError(t, err)
	return out.String(), stats
}

func TestRewriteDocument(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		stats LinkStats
	}{
		{"known page", `<a href="usage">Usage</a>`, `<a href="usage.html">Usage</a>`, LinkStats{Rewritten: 1}},
		{"external url", `<a href="https://github.com/Underrout/callisto">repo</a>`, `<a href="https://github.com/Underrout/callisto">repo</a>`, LinkStats{Kept: 1}},
		{"unknown name", `<a href="changelog">log</a>`, `<a href="changelog">log</a>`, LinkStats{Kept: 1}},
		{"already typed", `<a href="usage.html">Usage</a>`, `<a href="usage.html">Usage</a>`, LinkStats{Kept: 1}},
		{"fragment on known page", `<a href="usage#flags">flags</a>`, `<a href="usage#flags">flags</a>`, LinkStats{Kept: 1}},
		{"missing href", `<a name="top">top</a>`, `<a name="top">top</a>`, LinkStats{Skipped: 1}},
		{"empty href", `<a href="">nothing</a>`, `<a href="">nothing</a>`, LinkStats{Skipped: 1}},
		{"padded known page", `<a href=" usage ">Usage</a>`, `<a href=" usage ">Usage</a>`, LinkStats{Kept: 1}},
		{"different case", `<a href="Usage">Usage</a>`, `<a href="Usage">Usage</a>`, LinkStats{Kept: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stats := rewrite(t, "<p>"+tt.in+"</p>", "usage", "installing")
			assert.Contains(t, got, tt.want)
			assert.Equal(t, tt.stats, stats)
		})
	}
}

func TestRewriteDocumentKeepsOtherElements(t *testing.T) {
	got, stats := rewrite(t, `<link href="usage"><img src="usage"><a class="btn" href="usage" title="x">go</a>`, "usage")
	assert.Equal(t, 1, stats.Rewritten)
	assert.Contains(t, got, `<link href="usage"/>`)
	assert.Contains(t, got, `<img src="usage"/>`)
	assert.Contains(t, got, `<a class="btn" href="usage.html" title="x">go</a>`)
}

func TestRewriteLinksProcessesEveryPage(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.html":     `<a href="z">last page</a>`,
		"z.html":     `<a href="a">first page</a>`,
		"styles.css": `a { color: red } /* href="a" */`,
	})

	stats, err := RewriteLinks(dir, map[string]struct{}{"a": {}, "z": {}})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Rewritten)

	a, err := os.ReadFile(filepath.Join(dir, "a.html"))
	require.NoError(t, err)
	assert.Contains(t, string(a), `href="z.html"`)

	css, err := os.ReadFile(filepath.Join(dir, "styles.css"))
	require.NoError(t, err)
	assert.Equal(t, `a { color: red } /* href="a" */`, string(css))
}
