// Package depbuild compiles external dependencies once per (revision, architecture) matrix
// cell and places each artifact at its slot in the package tree.
package depbuild

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/underrout/callisto-release/internal/config"
	"github.com/underrout/callisto-release/internal/foundation/errors"
	"github.com/underrout/callisto-release/internal/fsutil"
	"github.com/underrout/callisto-release/internal/logfields"
	"github.com/underrout/callisto-release/internal/release"
	"github.com/underrout/callisto-release/internal/toolchain"
)

// Targets expands a dependency into its matrix cells, revision-major in configuration order.
func Targets(dep config.DependencyConfig, packageRoot string) []release.BuildTarget {
	targets := make([]release.BuildTarget, 0, len(dep.Revisions)*len(dep.Architectures))
	for _, rev := range dep.Revisions {
		for _, arch := range dep.Architectures {
			targets = append(targets, release.BuildTarget{
				Dependency:   dep.Name,
				Revision:     rev,
				Architecture: arch,
				OutputPath:   filepath.Join(packageRoot, dep.PackageDir, rev.Slot, arch.Slot, dep.ArtifactName),
			})
		}
	}
	return targets
}

// SkeletonDirs returns the package-relative directories every cell writes into.
func SkeletonDirs(dep config.DependencyConfig) []string {
	dirs := make([]string, 0, len(dep.Revisions)*len(dep.Architectures))
	for _, rev := range dep.Revisions {
		for _, arch := range dep.Architectures {
			dirs = append(dirs, filepath.Join(dep.PackageDir, rev.Slot, arch.Slot))
		}
	}
	return dirs
}

// Builder compiles matrix cells with cmake.
type Builder struct {
	cfg   *config.Config
	cmake *toolchain.CMake
}

// NewBuilder creates a matrix builder; build directories live under cfg.WorkDir.
func NewBuilder(cfg *config.Config, cmake *toolchain.CMake) *Builder {
	return &Builder{cfg: cfg, cmake: cmake}
}

// Build compiles one cell from the synced sources in sourceDir and copies the artifact to
// target.OutputPath. The per-architecture build directory is reused when present.
func (b *Builder) Build(ctx context.Context, dep config.DependencyConfig, target release.BuildTarget, sourceDir string) error {
	gen, ok := dep.Generations[target.Revision.Generation]
	if !ok {
		return errors.ConfigError(fmt.Sprintf("unknown generation %q for %s", target.Revision.Generation, target.Cell())).
			WithContextMap(cellContext(target)).
			Build()
	}

	buildDir := b.cfg.DependencyBuildDir(dep, target.Architecture)
	log := slog.With(logfields.Repository(dep.Name), logfields.Revision(target.Revision.Ref), logfields.Architecture(target.Architecture.Name))

	created, err := toolchain.EnsureBuildDir(buildDir)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to prepare build directory").
			WithContextMap(cellContext(target)).
			WithContext("build_dir", buildDir).
			Build()
	}
	log.Debug("Build directory ready", logfields.Dir(buildDir), slog.Bool("created", created))

	source := filepath.Join(sourceDir, gen.SourceSubdir)
	if err := b.cmake.Configure(ctx, source, buildDir, "-A", target.Architecture.Name); err != nil {
		return compileError(ctx, err, target, "configure", buildDir)
	}
	if err := b.cmake.Build(ctx, buildDir); err != nil {
		return compileError(ctx, err, target, "build", buildDir)
	}

	artifact := filepath.Join(buildDir, gen.ArtifactPath)
	if info, statErr := os.Stat(artifact); statErr != nil || info.IsDir() {
		return errors.FragmentCopyError(fmt.Sprintf("artifact for %s not found at %s", target.Cell(), artifact)).
			WithContextMap(cellContext(target)).
			WithContext("path", artifact).
			Build()
	}
	if _, err := fsutil.CopyPath(artifact, target.OutputPath); err != nil {
		return errors.WrapError(err, errors.CategoryFragmentCopy, fmt.Sprintf("failed to copy artifact for %s", target.Cell())).
			Fatal().
			WithContextMap(cellContext(target)).
			WithContext("path", target.OutputPath).
			Build()
	}
	log.Info("Dependency compiled", logfields.Path(target.OutputPath))
	return nil
}

func compileError(ctx context.Context, err error, target release.BuildTarget, phase, buildDir string) error {
	if ctx.Err() != nil {
		return errors.WrapError(ctx.Err(), errors.CategoryCanceled, "dependency build interrupted").
			WithContextMap(cellContext(target)).
			Build()
	}
	msg := fmt.Sprintf("failed to compile %s %s for %s (%s)", target.Dependency, target.Revision.Ref, target.Architecture.Name, phase)
	return errors.WrapError(err, errors.CategoryDependencyCompile, msg).
		Fatal().
		WithContextMap(cellContext(target)).
		WithContext("phase", phase).
		WithContext("build_dir", buildDir).
		Build()
}

func cellContext(target release.BuildTarget) errors.ErrorContext {
	return errors.ErrorContext{
		"dependency":   target.Dependency,
		"revision":     target.Revision.Ref,
		"architecture": target.Architecture.Name,
	}
}
