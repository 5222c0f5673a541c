// Package product configures and compiles the main product with the release version stamped
// in, then copies its output fragments into the package tree.
package product

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/underrout/callisto-release/internal/config"
	"github.com/underrout/callisto-release/internal/foundation/errors"
	"github.com/underrout/callisto-release/internal/fsutil"
	"github.com/underrout/callisto-release/internal/logfields"
	"github.com/underrout/callisto-release/internal/release"
	"github.com/underrout/callisto-release/internal/toolchain"
)

// Options describes one product build.
type Options struct {
	SourceDir string
	BuildDir  string
	// OutputSubdir is the directory inside BuildDir holding the fragment sources.
	OutputSubdir string
	Version      release.Version
	Fragments    []release.OutputFragment
	PackageRoot  string
}

// OptionsFrom derives build options from configuration.
func OptionsFrom(cfg *config.Config, v release.Version, packageRoot string) Options {
	return Options{
		SourceDir:    cfg.Product.SourceDir,
		BuildDir:     cfg.ProductBuildDir(),
		OutputSubdir: cfg.Product.OutputSubdir,
		Version:      v,
		Fragments:    cfg.Product.Fragments,
		PackageRoot:  packageRoot,
	}
}

// VersionDefines returns the cmake cache entries embedding the version.
func VersionDefines(v release.Version) []string {
	major, minor, patch := v.Components()
	return []string{
		"-DVERSION_MAJOR=" + major,
		"-DVERSION_MINOR=" + minor,
		"-DVERSION_PATCH=" + patch,
	}
}

// Builder runs the product build.
type Builder struct {
	cmake *toolchain.CMake
}

func NewBuilder(cmake *toolchain.CMake) *Builder { return &Builder{cmake: cmake} }

// Build configures, compiles and collects the product. Configure and compile failures are
// reported with distinct categories.
func (b *Builder) Build(ctx context.Context, opts Options) error {
	if _, err := toolchain.EnsureBuildDir(opts.BuildDir); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to prepare product build directory").
			WithContext("build_dir", opts.BuildDir).
			Build()
	}

	if err := b.cmake.Configure(ctx, opts.SourceDir, opts.BuildDir, VersionDefines(opts.Version)...); err != nil {
		return stageError(ctx, err, errors.CategoryProductConfigure, "failed to create build files for the product", opts)
	}
	if err := b.cmake.Build(ctx, opts.BuildDir); err != nil {
		return stageError(ctx, err, errors.CategoryProductCompile, "failed to compile the product", opts)
	}
	slog.Info("Product compiled", logfields.Version(opts.Version.String()), logfields.Dir(opts.BuildDir))

	return ApplyFragments(filepath.Join(opts.BuildDir, opts.OutputSubdir), opts.PackageRoot, opts.Fragments)
}

// ApplyFragments copies every fragment from outputRoot into packageRoot, in order.
func ApplyFragments(outputRoot, packageRoot string, fragments []release.OutputFragment) error {
	for _, f := range fragments {
		src := filepath.Join(outputRoot, filepath.FromSlash(f.Source))
		dst := filepath.Join(packageRoot, filepath.FromSlash(f.Destination))
		kind, err := fsutil.CopyPath(src, dst)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFragmentCopy, fmt.Sprintf("failed to copy fragment %s -> %s", f.Source, f.Destination)).
				Fatal().
				WithContext("source", src).
				WithContext("destination", dst).
				Build()
		}
		slog.Debug("Fragment copied", slog.String("source", f.Source), slog.String("destination", f.Destination), slog.String("kind", kind.String()))
	}
	return nil
}

func stageError(ctx context.Context, err error, category errors.ErrorCategory, msg string, opts Options) error {
	if ctx.Err() != nil {
		category = errors.CategoryCanceled
		err = ctx.Err()
	}
	return errors.WrapError(err, category, msg).
		Fatal().
		WithContext("version", opts.Version.String()).
		WithContext("build_dir", opts.BuildDir).
		Build()
}
