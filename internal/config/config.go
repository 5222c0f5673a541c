package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/underrout/callisto-release/internal/foundation/errors"
	"github.com/underrout/callisto-release/internal/release"
)

// CurrentVersion is the configuration schema version understood by this release tool.
const CurrentVersion = "1.0"

// DefaultFileName is the configuration file looked up when no path is given.
const DefaultFileName = "release.yaml"

// Config is the release configuration (release.yaml).
type Config struct {
	Version      string             `yaml:"version"`
	WorkDir      string             `yaml:"work_dir"`
	Toolchain    ToolchainConfig    `yaml:"toolchain"`
	Product      ProductConfig      `yaml:"product"`
	Dependencies []DependencyConfig `yaml:"dependencies"`
	Docs         DocsConfig         `yaml:"docs"`
	Package      PackageConfig      `yaml:"package"`

	// baseDir is the directory relative paths are resolved against.
	baseDir string
}

// ToolchainConfig names the build tool and its build configuration.
type ToolchainConfig struct {
	CMake       string `yaml:"cmake"`
	BuildConfig string `yaml:"build_config"`
}

// ProductConfig describes the main product. The product checkout is local and is not synced.
type ProductConfig struct {
	SourceDir string `yaml:"source_dir"`
	// BuildDir is the scratch cmake directory, relative to work_dir.
	BuildDir string `yaml:"build_dir"`
	// OutputSubdir is the directory inside BuildDir that fragments are copied from.
	OutputSubdir string `yaml:"output_subdir"`
	// RemoteURL is queried by the version gate. Empty means the URL of Remote in SourceDir.
	RemoteURL string                   `yaml:"remote_url,omitempty"`
	Remote    string                   `yaml:"remote"`
	Auth      *AuthConfig              `yaml:"auth,omitempty"`
	Fragments []release.OutputFragment `yaml:"fragments"`
}

// Generation captures the source and output layout shared by a family of dependency revisions.
type Generation struct {
	SourceSubdir string `yaml:"source_subdir"`
	ArtifactPath string `yaml:"artifact_path"`
}

// DependencyConfig describes an external library compiled once per matrix cell.
type DependencyConfig struct {
	Name   string      `yaml:"name"`
	URL    string      `yaml:"url"`
	Folder string      `yaml:"folder"`
	Policy SyncPolicy  `yaml:"policy"`
	Auth   *AuthConfig `yaml:"auth,omitempty"`
	// PackageDir is the package-relative directory holding <revision slot>/<arch slot>/<artifact>.
	PackageDir    string                 `yaml:"package_dir"`
	ArtifactName  string                 `yaml:"artifact_name"`
	Generations   map[string]Generation  `yaml:"generations"`
	Revisions     []release.Revision     `yaml:"revisions"`
	Architectures []release.Architecture `yaml:"architectures"`
}

// DocsConfig describes the documentation source repository and the HTML conversion.
type DocsConfig struct {
	Repository Repository      `yaml:"repository"`
	OutputDir  string          `yaml:"output_dir"`
	Extension  string          `yaml:"extension"`
	ImagesDir  string          `yaml:"images_dir"`
	Icon       string          `yaml:"icon"`
	Stylesheet string          `yaml:"stylesheet"`
	Converter  ConverterConfig `yaml:"converter"`
}

// PackageConfig controls the package tree and archive names.
type PackageConfig struct {
	Name string `yaml:"name"`
	// ReplaceExisting removes a package tree left by an earlier run of the same version.
	ReplaceExisting *bool `yaml:"replace_existing,omitempty"`
}

// ShouldReplaceExisting defaults to true.
func (p PackageConfig) ShouldReplaceExisting() bool {
	return p.ReplaceExisting == nil || *p.ReplaceExisting
}

// Load reads, expands, defaults and validates a configuration file.
func Load(configPath string) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to resolve config path").Fatal().Build()
	}
	baseDir := filepath.Dir(absPath)

	LoadEnvFiles(baseDir)

	if _, statErr := os.Stat(absPath); os.IsNotExist(statErr) {
		return nil, errors.ConfigError(fmt.Sprintf("configuration file not found: %s", configPath)).
			WithContext("path", configPath).
			Build()
	}

	// #nosec G304 - config path is provided by the operator
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	return Parse(data, baseDir)
}

// Parse builds a configuration from YAML content; relative paths resolve against baseDir.
func Parse(data []byte, baseDir string) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse configuration").Fatal().Build()
	}
	if cfg.Version != CurrentVersion {
		return nil, errors.ConfigError(fmt.Sprintf("unsupported configuration version: %q (expected %s)", cfg.Version, CurrentVersion)).
			WithContext("field", "version").
			Build()
	}
	cfg.baseDir = baseDir

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.resolvePaths()
	return &cfg, nil
}

// BaseDir returns the directory the configuration was loaded from.
func (c *Config) BaseDir() string { return c.baseDir }

func (c *Config) resolvePaths() {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(c.baseDir, p)
	}
	c.WorkDir = abs(c.WorkDir)
	c.Product.SourceDir = abs(c.Product.SourceDir)
	c.Docs.Icon = abs(c.Docs.Icon)
	c.Docs.Stylesheet = abs(c.Docs.Stylesheet)
	c.Docs.Converter.ThemeDir = abs(c.Docs.Converter.ThemeDir)
	c.Toolchain.CMake = resolveExecutable(c.baseDir, c.Toolchain.CMake)
	c.Docs.Converter.Executable = resolveExecutable(c.baseDir, c.Docs.Converter.Executable)
}

// resolveExecutable anchors an executable given as a relative path to baseDir. Bare names
// are left for the PATH lookup.
func resolveExecutable(baseDir, name string) string {
	if name == "" || filepath.IsAbs(name) || !strings.ContainsAny(name, `/\`) {
		return name
	}
	return filepath.Join(baseDir, filepath.FromSlash(name))
}

// PackageBaseName is "<package>-<version>", shared by the package root and the archive.
func (c *Config) PackageBaseName(v release.Version) string {
	return c.Package.Name + "-" + v.String()
}

// PackageRoot is the package tree root for a version.
func (c *Config) PackageRoot(v release.Version) string {
	return filepath.Join(c.WorkDir, c.PackageBaseName(v))
}

// ArchivePath is the zip archive written next to the package root.
func (c *Config) ArchivePath(v release.Version) string {
	return filepath.Join(c.WorkDir, c.PackageBaseName(v)+".zip")
}

// ProductBuildDir is the scratch cmake directory of the product.
func (c *Config) ProductBuildDir() string {
	return filepath.Join(c.WorkDir, c.Product.BuildDir)
}

// DependencyDir is the long-lived working copy of a dependency.
func (c *Config) DependencyDir(dep DependencyConfig) string {
	return filepath.Join(c.WorkDir, dep.Folder)
}

// DependencyBuildDir is the per-architecture cmake cache of a dependency.
func (c *Config) DependencyBuildDir(dep DependencyConfig, arch release.Architecture) string {
	return filepath.Join(c.WorkDir, dep.Name+"-build-"+arch.Name)
}

// DocsSourceDir is the working copy of the documentation repository.
func (c *Config) DocsSourceDir() string {
	return filepath.Join(c.WorkDir, c.Docs.Repository.Name)
}
