package docs

import (
	"os"
	"path/filepath"

	"github.com/underrout/callisto-release/internal/foundation/errors"
	"github.com/underrout/callisto-release/internal/fsutil"
)

// Assets names the branding files copied next to the generated pages. ImagesDir is relative
// to the documentation source folder; Icon and Stylesheet are file paths. Empty fields are
// not copied.
type Assets struct {
	ImagesDir  string
	Icon       string
	Stylesheet string
}

// IconHref and StylesheetHref are the names the assets get inside the output folder.
func (a Assets) IconHref() string       { return baseOrEmpty(a.Icon) }
func (a Assets) StylesheetHref() string { return baseOrEmpty(a.Stylesheet) }

func baseOrEmpty(p string) string {
	if p == "" {
		return ""
	}
	return filepath.Base(p)
}

// CopyAssets copies the images folder recursively, then the icon and stylesheet.
func CopyAssets(inputDir, outputDir string, a Assets) error {
	if a.ImagesDir != "" {
		src := filepath.Join(inputDir, a.ImagesDir)
		if err := copyAsset(src, filepath.Join(outputDir, filepath.Base(a.ImagesDir)), true); err != nil {
			return err
		}
	}
	if a.Icon != "" {
		if err := copyAsset(a.Icon, filepath.Join(outputDir, a.IconHref()), false); err != nil {
			return err
		}
	}
	if a.Stylesheet != "" {
		if err := copyAsset(a.Stylesheet, filepath.Join(outputDir, a.StylesheetHref()), false); err != nil {
			return err
		}
	}
	return nil
}

func copyAsset(src, dst string, wantDir bool) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFragmentCopy, "documentation asset not found").
			Fatal().
			WithContext("source", src).
			Build()
	}
	if info.IsDir() != wantDir {
		return errors.FragmentCopyError("documentation asset has the wrong type").
			WithContext("source", src).
			WithContext("directory", info.IsDir()).
			Build()
	}
	if _, err := fsutil.CopyPath(src, dst); err != nil {
		return errors.WrapError(err, errors.CategoryFragmentCopy, "failed to copy documentation asset").
			Fatal().
			WithContext("source", src).
			WithContext("destination", dst).
			Build()
	}
	return nil
}
