package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/underrout/callisto-release/internal/foundation/errors"
	"github.com/underrout/callisto-release/internal/release"
)

const minimalConfig = `version: "1.0"
dependencies:
  - name: asar
    url: https://example.com/asar.git
    generations:
      legacy:
        artifact_path: asar/Release/asar.dll
    revisions:
      - ref: c-v1.81-2
        slot: v1.81
docs:
  repository:
    url: https://example.com/callisto.wiki.git
`

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(writeConfig(t, dir, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "build"), cfg.WorkDir)
	assert.Equal(t, filepath.Join(dir, ".."), cfg.Product.SourceDir)
	assert.Equal(t, "cmake", cfg.Toolchain.CMake)
	assert.Equal(t, "Release", cfg.Toolchain.BuildConfig)
	assert.Equal(t, DefaultFragments(), cfg.Product.Fragments)

	require.Len(t, cfg.Dependencies, 1)
	dep := cfg.Dependencies[0]
	assert.Equal(t, PolicyPinned, dep.Policy)
	assert.Equal(t, "asar", dep.Folder)
	assert.Equal(t, "asar", dep.PackageDir)
	assert.Equal(t, "asar.dll", dep.ArtifactName)
	assert.Equal(t, "src", dep.Generations["legacy"].SourceSubdir)
	assert.Equal(t, "legacy", dep.Revisions[0].Generation)
	assert.Equal(t, []release.Architecture{{Name: "Win32", Slot: "32-bit"}, {Name: "x64", Slot: "64-bit"}}, dep.Architectures)

	assert.Equal(t, PolicyFloating, cfg.Docs.Repository.Policy)
	assert.Equal(t, "master", cfg.Docs.Repository.Ref)
	assert.Equal(t, "callisto-docs", cfg.Docs.Repository.Name)
	assert.Equal(t, EngineCommand, cfg.Docs.Converter.Engine)
	assert.Equal(t, filepath.Join(dir, "pandoc-bootstrap"), cfg.Docs.Converter.ThemeDir)
	assert.Equal(t, filepath.Join(dir, "pandoc-bootstrap", "styles.css"), cfg.Docs.Stylesheet)
	assert.True(t, cfg.Package.ShouldReplaceExisting())
}

func TestLoadResolvesRelativeExecutables(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(writeConfig(t, dir, minimalConfig+`toolchain:
  cmake: tools/cmake/bin/cmake
`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tools", "cmake", "bin", "cmake"), cfg.Toolchain.CMake)
	assert.Equal(t, "pandoc", cfg.Docs.Converter.Executable)

	abs := filepath.Join(dir, "bin", "pandoc")
	assert.Equal(t, abs, resolveExecutable("/elsewhere", abs))
	assert.Equal(t, filepath.Join(dir, "pandoc", "pandoc"), resolveExecutable(dir, "./pandoc/pandoc"))
}

func TestPackagePaths(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(writeConfig(t, dir, minimalConfig))
	require.NoError(t, err)

	v := release.Version{Major: 0, Minor: 2, Patch: 4}
	assert.Equal(t, filepath.Join(dir, "build", "callisto-v0.2.4"), cfg.PackageRoot(v))
	assert.Equal(t, filepath.Join(dir, "build", "callisto-v0.2.4.zip"), cfg.ArchivePath(v))
	arch := release.Architecture{Name: "Win32", Slot: "32-bit"}
	assert.Equal(t, filepath.Join(dir, "build", "asar-build-Win32"), cfg.DependencyBuildDir(cfg.Dependencies[0], arch))
	assert.Equal(t, filepath.Join(dir, "build", "asar"), cfg.DependencyDir(cfg.Dependencies[0]))
	assert.Equal(t, filepath.Join(dir, "build", "callisto-docs"), cfg.DocsSourceDir())
}

func TestLoadExpandsEnvFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CALLISTO_TEST_WIKI", "")
	require.NoError(t, os.Unsetenv("CALLISTO_TEST_WIKI"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CALLISTO_TEST_WIKI=https://mirror.example/wiki.git\n"), 0o600))

	content := `version: "1.0"
docs:
  repository:
    url: ${CALLISTO_TEST_WIKI}
`
	cfg, err := Load(writeConfig(t, dir, content))
	require.NoError(t, err)
	assert.Equal(t, "https://mirror.example/wiki.git", cfg.Docs.Repository.URL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestParseRejectsUnknownVersion(t *testing.T) {
	_, err := Parse([]byte("version: \"2.0\"\n"), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported configuration version")
}

func TestConverterTemplateSplitsExtraArgs(t *testing.T) {
	conv := ConverterConfig{
		Executable: "pandoc",
		Args:       []string{"{input}", "-o", "{output}"},
		ExtraArgs:  `--highlight-style "breeze dark" --wrap=none`,
	}
	tmpl, err := conv.Template()
	require.NoError(t, err)
	assert.Equal(t, []string{"{input}", "-o", "{output}", "--highlight-style", "breeze dark", "--wrap=none"}, tmpl.Args)

	conv.ExtraArgs = `"unterminated`
	_, err = conv.Template()
	assert.Error(t, err)
}

func TestInitWritesLoadableDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Dependencies, 1)
	dep := cfg.Dependencies[0]
	assert.Equal(t, "https://github.com/Underrout/asar.git", dep.URL)
	require.Len(t, dep.Revisions, 2)
	assert.Equal(t, "c-v1.81-2", dep.Revisions[0].Ref)
	assert.Equal(t, "v1.91", dep.Revisions[1].Slot)
	assert.NotEqual(t, dep.Generations["v1.8x"].ArtifactPath, dep.Generations["v1.9x"].ArtifactPath)

	err = Init(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	require.NoError(t, Init(path, true))
}
