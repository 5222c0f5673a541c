package config

import (
	"path/filepath"

	"github.com/underrout/callisto-release/internal/release"
)

// DefaultDocsURL is the wiki repository the documentation is generated from.
const DefaultDocsURL = "https://github.com/Underrout/callisto.wiki.git"

// Default architecture matrix: the label handed to cmake -A and the package slot.
var defaultArchitectures = []release.Architecture{
	{Name: "Win32", Slot: "32-bit"},
	{Name: "x64", Slot: "64-bit"},
}

// DefaultFragments is the product output mapping shipped in every package.
func DefaultFragments() []release.OutputFragment {
	return []release.OutputFragment{
		{Source: "config", Destination: "config"},
		{Source: "initial_patches", Destination: "initial_patches"},
		{Source: "Release/asar.dll", Destination: "asar.dll"},
		{Source: "Release/ASAR_LICENSE", Destination: "ASAR_LICENSE"},
		{Source: "Release/callisto.exe", Destination: "callisto.exe"},
		{Source: "Release/eloper.exe", Destination: "eloper.exe"},
		{Source: "Release/LICENSE", Destination: "LICENSE"},
	}
}

// DefaultConverterArgs reproduces the pandoc invocation with the bootstrap theme.
func DefaultConverterArgs() []string {
	return []string{
		"{input}", "-o", "{output}",
		"--template", "{theme}/template.html",
		"--include-in-header", "{theme}/header.html",
		"--include-after-body", "{theme}/footer.html",
		"--standalone", "--mathjax", "--toc", "--toc-depth", "2",
		"--metadata=title:{title}",
		"-V", "vmajor={major}",
		"-V", "vminor={minor}",
		"-V", "vpatch={patch}",
	}
}

func applyDefaults(cfg *Config) {
	if cfg.WorkDir == "" {
		cfg.WorkDir = "build"
	}
	if cfg.Toolchain.CMake == "" {
		cfg.Toolchain.CMake = "cmake"
	}
	if cfg.Toolchain.BuildConfig == "" {
		cfg.Toolchain.BuildConfig = "Release"
	}

	p := &cfg.Product
	if p.SourceDir == "" {
		p.SourceDir = ".."
	}
	if p.BuildDir == "" {
		p.BuildDir = "callisto"
	}
	if p.OutputSubdir == "" {
		p.OutputSubdir = "callisto"
	}
	if p.Remote == "" {
		p.Remote = "origin"
	}
	if len(p.Fragments) == 0 {
		p.Fragments = DefaultFragments()
	}

	for i := range cfg.Dependencies {
		applyDependencyDefaults(&cfg.Dependencies[i])
	}

	d := &cfg.Docs
	if d.Repository.Name == "" {
		d.Repository.Name = "callisto-docs"
	}
	if d.Repository.URL == "" {
		d.Repository.URL = DefaultDocsURL
	}
	if d.Repository.Ref == "" {
		d.Repository.Ref = "master"
	}
	d.Repository.Policy = defaultPolicy(d.Repository.Policy, PolicyFloating)
	if d.OutputDir == "" {
		d.OutputDir = "documentation"
	}
	if d.Extension == "" {
		d.Extension = ".md"
	}
	if d.ImagesDir == "" {
		d.ImagesDir = "images"
	}
	if d.Icon == "" {
		d.Icon = filepath.Join("..", "callisto", "icons", "callisto1.ico")
	}
	if d.Converter.Engine == "" {
		d.Converter.Engine = EngineCommand
	}
	d.Converter.Engine = converterEngines.Normalize(string(d.Converter.Engine), d.Converter.Engine)
	normalizeAuth(d.Repository.Auth)
	normalizeAuth(p.Auth)
	if d.Converter.Executable == "" {
		d.Converter.Executable = "pandoc"
	}
	if len(d.Converter.Args) == 0 {
		d.Converter.Args = DefaultConverterArgs()
	}
	if d.Converter.ThemeDir == "" {
		d.Converter.ThemeDir = "pandoc-bootstrap"
	}
	if d.Stylesheet == "" {
		d.Stylesheet = filepath.Join(d.Converter.ThemeDir, "styles.css")
	}

	if cfg.Package.Name == "" {
		cfg.Package.Name = "callisto"
	}
}

// defaultPolicy fills an empty policy and case-folds known ones; unknown values are kept
// so validation can report them.
func defaultPolicy(p, fallback SyncPolicy) SyncPolicy {
	if p == "" {
		return fallback
	}
	if n := NormalizeSyncPolicy(string(p)); n != "" {
		return n
	}
	return p
}

func applyDependencyDefaults(dep *DependencyConfig) {
	if dep.Folder == "" {
		dep.Folder = dep.Name
	}
	if dep.PackageDir == "" {
		dep.PackageDir = dep.Name
	}
	if dep.ArtifactName == "" && dep.Name != "" {
		dep.ArtifactName = dep.Name + ".dll"
	}
	dep.Policy = defaultPolicy(dep.Policy, PolicyPinned)
	normalizeAuth(dep.Auth)
	if len(dep.Architectures) == 0 {
		dep.Architectures = append([]release.Architecture(nil), defaultArchitectures...)
	}
	for name, gen := range dep.Generations {
		if gen.SourceSubdir == "" {
			gen.SourceSubdir = "src"
			dep.Generations[name] = gen
		}
	}
	// A single generation is implied for every revision that does not name one.
	if len(dep.Generations) == 1 {
		for name := range dep.Generations {
			for i := range dep.Revisions {
				if dep.Revisions[i].Generation == "" {
					dep.Revisions[i].Generation = name
				}
			}
		}
	}
}

// Default returns the complete configuration used to release Callisto: asar built for
// two revision generations and two architectures, documentation from the wiki.
func Default() *Config {
	replace := true
	cfg := &Config{
		Version: CurrentVersion,
		WorkDir: "build",
		Toolchain: ToolchainConfig{
			CMake:       "cmake",
			BuildConfig: "Release",
		},
		Product: ProductConfig{
			SourceDir:    "..",
			BuildDir:     "callisto",
			OutputSubdir: "callisto",
			Remote:       "origin",
			Fragments:    DefaultFragments(),
		},
		Dependencies: []DependencyConfig{
			{
				Name:         "asar",
				URL:          "https://github.com/Underrout/asar.git",
				Folder:       "asar",
				Policy:       PolicyPinned,
				PackageDir:   "asar",
				ArtifactName: "asar.dll",
				Generations: map[string]Generation{
					"v1.8x": {SourceSubdir: "src", ArtifactPath: "asar/Release/asar.dll"},
					"v1.9x": {SourceSubdir: "src", ArtifactPath: "asar/lib/Release/asar.dll"},
				},
				Revisions: []release.Revision{
					{Ref: "c-v1.81-2", Slot: "v1.81", Generation: "v1.8x"},
					{Ref: "c-v1.91-2", Slot: "v1.91", Generation: "v1.9x"},
				},
				Architectures: append([]release.Architecture(nil), defaultArchitectures...),
			},
		},
		Docs: DocsConfig{
			Repository: Repository{
				Name:   "callisto-docs",
				URL:    DefaultDocsURL,
				Ref:    "master",
				Policy: PolicyFloating,
			},
			OutputDir:  "documentation",
			Extension:  ".md",
			ImagesDir:  "images",
			Icon:       filepath.Join("..", "callisto", "icons", "callisto1.ico"),
			Stylesheet: filepath.Join("pandoc-bootstrap", "styles.css"),
			Converter: ConverterConfig{
				Engine:     EngineCommand,
				Executable: "pandoc",
				Args:       DefaultConverterArgs(),
				ThemeDir:   "pandoc-bootstrap",
			},
		},
		Package: PackageConfig{Name: "callisto", ReplaceExisting: &replace},
	}
	return cfg
}
