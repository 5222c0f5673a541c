package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/underrout/callisto-release/internal/foundation/errors"
)

// Page is one documentation source file and the HTML file generated from it.
type Page struct {
	// Name is the file name without extension. Other pages link to it by this name.
	Name       string
	Title      string
	SourcePath string
	OutputPath string
}

// TitleFor derives the display title of a page from its name.
func TitleFor(name string) string {
	return strings.ReplaceAll(name, "-", " ")
}

// DiscoverPages lists the files in inputDir ending in ext, sorted by name. Directories and
// names beginning with an underscore are skipped.
func DiscoverPages(inputDir, outputDir, ext string) ([]Page, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryDocConversion, "failed to read documentation folder").
			Fatal().
			WithContext("path", inputDir).
			Build()
	}

	var pages []Page
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") || !strings.HasSuffix(name, ext) {
			continue
		}
		base := strings.TrimSuffix(name, ext)
		if base == "" {
			continue
		}
		pages = append(pages, Page{
			Name:       base,
			Title:      TitleFor(base),
			SourcePath: filepath.Join(inputDir, name),
			OutputPath: filepath.Join(outputDir, base+".html"),
		})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Name < pages[j].Name })
	return pages, nil
}

// PageNames returns the set of names pages may link to.
func PageNames(pages []Page) map[string]struct{} {
	names := make(map[string]struct{}, len(pages))
	for _, p := range pages {
		names[p.Name] = struct{}{}
	}
	return names
}

func (p Page) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, filepath.Base(p.SourcePath))
}
