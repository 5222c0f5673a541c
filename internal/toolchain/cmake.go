package toolchain

import (
	"context"
	"fmt"
	"os"
)

// CMake drives the two cmake phases used by every release build.
type CMake struct {
	Runner     Runner
	Executable string
	// Config is the multi-config build configuration, e.g. "Release".
	Config string
}

// NewCMake returns a CMake driver with defaults applied.
func NewCMake(r Runner, executable, config string) *CMake {
	if executable == "" {
		executable = "cmake"
	}
	if config == "" {
		config = "Release"
	}
	return &CMake{Runner: r, Executable: executable, Config: config}
}

// EnsureBuildDir creates buildDir when missing and leaves an existing one untouched,
// keeping the cache from earlier runs.
func EnsureBuildDir(buildDir string) (created bool, err error) {
	if info, statErr := os.Stat(buildDir); statErr == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("build directory %s is a file", buildDir)
		}
		return false, nil
	}
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return false, err
	}
	return true, nil
}

// ConfigureCommand returns the generate-step invocation: cmake [args...] <sourceDir>, run from buildDir.
func (c *CMake) ConfigureCommand(sourceDir, buildDir string, args ...string) Command {
	all := make([]string, 0, len(args)+1)
	all = append(all, args...)
	all = append(all, sourceDir)
	return Command{Name: c.Executable, Args: all, Dir: buildDir}
}

// BuildCommand returns the compile-step invocation: cmake --build . --config <Config>, run from buildDir.
func (c *CMake) BuildCommand(buildDir string) Command {
	return Command{Name: c.Executable, Args: []string{"--build", ".", "--config", c.Config}, Dir: buildDir}
}

// Configure runs the generate step.
func (c *CMake) Configure(ctx context.Context, sourceDir, buildDir string, args ...string) error {
	return c.Runner.Run(ctx, c.ConfigureCommand(sourceDir, buildDir, args...))
}

// Build runs the compile step.
func (c *CMake) Build(ctx context.Context, buildDir string) error {
	return c.Runner.Run(ctx, c.BuildCommand(buildDir))
}
