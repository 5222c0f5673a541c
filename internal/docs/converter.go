package docs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/underrout/callisto-release/internal/foundation/errors"
	"github.com/underrout/callisto-release/internal/release"
	"github.com/underrout/callisto-release/internal/toolchain"
)

// Converter renders a single page to HTML at page.OutputPath.
type Converter interface {
	Convert(ctx context.Context, page Page, v release.Version) error
}

// CommandConverter runs an external converter (pandoc by default) once per page.
type CommandConverter struct {
	runner   toolchain.Runner
	template toolchain.CommandTemplate
	themeDir string
}

// NewCommandConverter validates the template up front so a bad placeholder fails before any
// page is touched.
func NewCommandConverter(runner toolchain.Runner, tmpl toolchain.CommandTemplate, themeDir string) (*CommandConverter, error) {
	if err := tmpl.Validate(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid converter command").
			Fatal().
			WithContext("executable", tmpl.Executable).
			Build()
	}
	return &CommandConverter{runner: runner, template: tmpl, themeDir: themeDir}, nil
}

// Command returns the invocation for one page. It runs in the page's source folder.
func (c *CommandConverter) Command(page Page, v release.Version) toolchain.Command {
	values := toolchain.TemplateValues{
		toolchain.PlaceholderInput:  page.SourcePath,
		toolchain.PlaceholderOutput: page.OutputPath,
		toolchain.PlaceholderTitle:  page.Title,
		toolchain.PlaceholderMajor:  strconv.Itoa(v.Major),
		toolchain.PlaceholderMinor:  strconv.Itoa(v.Minor),
		toolchain.PlaceholderPatch:  strconv.Itoa(v.Patch),
		toolchain.PlaceholderTheme:  c.themeDir,
	}
	return c.template.Expand(values, filepath.Dir(page.SourcePath))
}

func (c *CommandConverter) Convert(ctx context.Context, page Page, v release.Version) error {
	if err := c.runner.Run(ctx, c.Command(page, v)); err != nil {
		return conversionError(ctx, err, page)
	}
	if _, err := os.Stat(page.OutputPath); err != nil {
		return conversionError(ctx, fmt.Errorf("converter produced no output: %w", err), page)
	}
	return nil
}

func conversionError(ctx context.Context, err error, page Page) error {
	if ctx.Err() != nil {
		return errors.WrapError(ctx.Err(), errors.CategoryCanceled, "documentation generation interrupted").
			WithContext("page", page.Name).
			Build()
	}
	return errors.WrapError(err, errors.CategoryDocConversion, fmt.Sprintf("failed to convert page %s", page.Name)).
		Fatal().
		WithContext("page", page.Name).
		WithContext("source", page.SourcePath).
		WithContext("output", page.OutputPath).
		Build()
}
