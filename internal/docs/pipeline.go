package docs

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/underrout/callisto-release/internal/config"
	"github.com/underrout/callisto-release/internal/foundation/errors"
	"github.com/underrout/callisto-release/internal/logfields"
	"github.com/underrout/callisto-release/internal/release"
	"github.com/underrout/callisto-release/internal/toolchain"
)

// Pipeline generates the documentation folder of a release.
type Pipeline struct {
	Converter Converter
	Extension string
	Assets    Assets
}

// Result describes one generation.
type Result struct {
	Pages    []Page
	Links    LinkStats
	Duration time.Duration
}

// NewPipeline builds a pipeline from configuration. The command engine runs its converter
// through runner; the goldmark engine needs no external binary.
func NewPipeline(cfg config.DocsConfig, runner toolchain.Runner) (*Pipeline, error) {
	assets := Assets{ImagesDir: cfg.ImagesDir, Icon: cfg.Icon, Stylesheet: cfg.Stylesheet}
	p := &Pipeline{Extension: cfg.Extension, Assets: assets}

	switch cfg.Converter.Engine {
	case config.EngineGoldmark:
		p.Converter = NewGoldmarkConverter(assets.StylesheetHref(), assets.IconHref())
	case config.EngineCommand, "":
		tmpl, err := cfg.Converter.Template()
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "invalid converter command").Fatal().Build()
		}
		conv, err := NewCommandConverter(runner, tmpl, cfg.Converter.ThemeDir)
		if err != nil {
			return nil, err
		}
		p.Converter = conv
	default:
		return nil, errors.ConfigError("unknown documentation converter engine").
			WithContext("engine", string(cfg.Converter.Engine)).
			Build()
	}
	return p, nil
}

// Generate converts every page of inputDir into outputDir, rewrites intra-suite links once all
// pages exist, then copies the branding assets.
func (p *Pipeline) Generate(ctx context.Context, inputDir, outputDir string, v release.Version) (*Result, error) {
	start := time.Now()
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, errors.WrapError(err, errors.CategoryDocConversion, "failed to create documentation folder").
			Fatal().
			WithContext("path", outputDir).
			Build()
	}

	ext := p.Extension
	if ext == "" {
		ext = ".md"
	}
	pages, err := DiscoverPages(inputDir, outputDir, ext)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		slog.Warn("No documentation pages found", logfields.Path(inputDir))
	}

	for _, page := range pages {
		slog.Debug("Converting page", logfields.Page(page.Name), logfields.File(page.SourcePath))
		if err := p.Converter.Convert(ctx, page, v); err != nil {
			return nil, err
		}
	}

	links, err := RewriteLinks(outputDir, PageNames(pages))
	if err != nil {
		return nil, err
	}

	if err := CopyAssets(inputDir, outputDir, p.Assets); err != nil {
		return nil, err
	}

	res := &Result{Pages: pages, Links: links, Duration: time.Since(start)}
	slog.Info("Documentation generated",
		logfields.Count(len(pages)),
		slog.Int("links_rewritten", links.Rewritten),
		logfields.Path(outputDir),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res, nil
}
