package docs

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/underrout/callisto-release/internal/foundation/errors"
	"github.com/underrout/callisto-release/internal/logfields"
)

// linkAction is the outcome of inspecting one <a> element.
type linkAction int

const (
	// linkSkip: the element has no usable href. Not an error.
	linkSkip linkAction = iota
	// linkKeep: external URL, anchor, already-typed file or unknown name.
	linkKeep
	// linkRewrite: href names a known page; ".html" is appended.
	linkRewrite
)

// LinkStats counts the decisions taken while rewriting.
type LinkStats struct {
	Rewritten int
	Kept      int
	Skipped   int
}

func (s *LinkStats) add(o LinkStats) {
	s.Rewritten += o.Rewritten
	s.Kept += o.Kept
	s.Skipped += o.Skipped
}

// classifyLink decides what to do with an anchor and returns the index of its href attribute.
func classifyLink(n *html.Node, known map[string]struct{}) (linkAction, int) {
	idx := attrIndex(n, "href")
	if idx < 0 {
		return linkSkip, -1
	}
	href := n.Attr[idx].Val
	if href == "" {
		return linkSkip, -1
	}
	if _, ok := known[href]; ok {
		return linkRewrite, idx
	}
	return linkKeep, idx
}

func attrIndex(n *html.Node, key string) int {
	for i, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return i
		}
	}
	return -1
}

// RewriteDocument copies an HTML document from r to w, appending ".html" to every anchor
// whose href exactly matches a known page name.
func RewriteDocument(r io.Reader, w io.Writer, known map[string]struct{}) (LinkStats, error) {
	var stats LinkStats
	doc, err := html.Parse(r)
	if err != nil {
		return stats, err
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			switch action, idx := classifyLink(n, known); action {
			case linkRewrite:
				n.Attr[idx].Val += ".html"
				stats.Rewritten++
			case linkKeep:
				stats.Kept++
			case linkSkip:
				stats.Skipped++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return stats, html.Render(w, doc)
}

// RewriteLinks applies RewriteDocument in place to every .html file directly inside dir.
func RewriteLinks(dir string, known map[string]struct{}) (LinkStats, error) {
	var total LinkStats
	entries, err := os.ReadDir(dir)
	if err != nil {
		return total, errors.WrapError(err, errors.CategoryDocConversion, "failed to list generated pages").
			Fatal().
			WithContext("path", dir).
			Build()
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".html") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	for _, path := range files {
		stats, err := rewriteFile(path, known)
		if err != nil {
			return total, errors.WrapError(err, errors.CategoryDocConversion, "failed to rewrite links").
				Fatal().
				WithContext("file", path).
				Build()
		}
		slog.Debug("Rewrote page links", logfields.File(filepath.Base(path)),
			slog.Int("rewritten", stats.Rewritten), slog.Int("kept", stats.Kept), slog.Int("skipped", stats.Skipped))
		total.add(stats)
	}
	return total, nil
}

func rewriteFile(path string, known map[string]struct{}) (LinkStats, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return LinkStats{}, err
	}
	var out bytes.Buffer
	stats, err := RewriteDocument(bytes.NewReader(data), &out, known)
	if err != nil {
		return stats, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return stats, err
	}
	return stats, os.WriteFile(path, out.Bytes(), info.Mode().Perm())
}
