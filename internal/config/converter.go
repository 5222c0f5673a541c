package config

import (
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/shell"

	"github.com/underrout/callisto-release/internal/foundation/normalization"
	"github.com/underrout/callisto-release/internal/toolchain"
)

// ConverterEngine selects how documentation pages are converted to HTML.
type ConverterEngine string

const (
	// EngineCommand runs an external converter (pandoc by default) once per page.
	EngineCommand ConverterEngine = "command"
	// EngineGoldmark renders pages in-process without any external binary.
	EngineGoldmark ConverterEngine = "goldmark"
)

var converterEngines = normalization.NewNormalizer(map[string]ConverterEngine{
	"command":  EngineCommand,
	"pandoc":   EngineCommand,
	"goldmark": EngineGoldmark,
})

// ConverterConfig describes the documentation converter invocation.
type ConverterConfig struct {
	Engine     ConverterEngine `yaml:"engine"`
	Executable string          `yaml:"executable"`
	// Args is the ordered argument list with {input} {output} {title} {major} {minor}
	// {patch} {theme} placeholders.
	Args []string `yaml:"args"`
	// ExtraArgs is appended after Args and split with shell quoting rules,
	// e.g. `--highlight-style "breeze dark"`.
	ExtraArgs string `yaml:"extra_args,omitempty"`
	ThemeDir  string `yaml:"theme_dir"`
}

// Template returns the structured command template for the external converter.
func (c ConverterConfig) Template() (toolchain.CommandTemplate, error) {
	args := append([]string(nil), c.Args...)
	if strings.TrimSpace(c.ExtraArgs) != "" {
		extra, err := shell.Fields(c.ExtraArgs, os.Getenv)
		if err != nil {
			return toolchain.CommandTemplate{}, fmt.Errorf("invalid extra_args %q: %w", c.ExtraArgs, err)
		}
		args = append(args, extra...)
	}
	return toolchain.CommandTemplate{Executable: c.Executable, Args: args}, nil
}
