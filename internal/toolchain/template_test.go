package toolchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pandocTemplate() CommandTemplate {
	return CommandTemplate{
		Executable: "pandoc",
		Args: []string{
			"{input}", "-o", "{output}",
			"--metadata=title:{title}",
			"-V", "vmajor={major}", "-V", "vminor={minor}", "-V", "vpatch={patch}",
		},
	}
}

func TestCommandTemplateExpandKeepsArgumentBoundaries(t *testing.T) {
	cmd := pandocTemplate().Expand(TemplateValues{
		PlaceholderInput:  "/docs/Getting Started.md",
		PlaceholderOutput: "/out/Getting Started.html",
		PlaceholderTitle:  "Getting Started",
		PlaceholderMajor:  "0",
		PlaceholderMinor:  "2",
		PlaceholderPatch:  "4",
	}, "/docs")

	assert.Equal(t, "pandoc", cmd.Name)
	assert.Equal(t, "/docs", cmd.Dir)
	assert.Equal(t, []string{
		"/docs/Getting Started.md", "-o", "/out/Getting Started.html",
		"--metadata=title:Getting Started",
		"-V", "vmajor=0", "-V", "vminor=2", "-V", "vpatch=4",
	}, cmd.Args)
}

func TestCommandTemplateValidate(t *testing.T) {
	require.NoError(t, pandocTemplate().Validate())

	tests := map[string]CommandTemplate{
		"no executable": {Args: []string{"{input}", "{output}"}},
		"unknown":       {Executable: "pandoc", Args: []string{"{input}", "{output}", "{colour}"}},
		"no output":     {Executable: "pandoc", Args: []string{"{input}"}},
		"no input":      {Executable: "pandoc", Args: []string{"-o", "{output}"}},
	}
	for name, tmpl := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, tmpl.Validate())
		})
	}
}

func TestCommandTemplatePlaceholders(t *testing.T) {
	got := pandocTemplate().Placeholders()
	assert.Equal(t, []Placeholder{
		PlaceholderInput, PlaceholderOutput, PlaceholderTitle,
		PlaceholderMajor, PlaceholderMinor, PlaceholderPatch,
	}, got)
}

func TestCommandTemplateLeavesMissingValues(t *testing.T) {
	cmd := CommandTemplate{Executable: "x", Args: []string{"{input}", "{theme}/t.html"}}.
		Expand(TemplateValues{PlaceholderInput: "a.md"}, "")
	assert.Equal(t, []string{"a.md", "{theme}/t.html"}, cmd.Args)
}
