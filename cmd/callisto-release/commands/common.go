package commands

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/underrout/callisto-release/internal/config"
	"github.com/underrout/callisto-release/internal/logfields"
	"github.com/underrout/callisto-release/internal/metrics"
	"github.com/underrout/callisto-release/internal/pipeline"
	"github.com/underrout/callisto-release/internal/release"
)

// LogLevelEnv overrides the log level chosen by --verbose.
const LogLevelEnv = "CALLISTO_RELEASE_LOG_LEVEL"

// Global carries process-wide handles into subcommands.
type Global struct {
	Stdout io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Release configuration file" default:"release.yaml" type:"path"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics in text format to this file" type:"path"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build        BuildCmd        `cmd:"" help:"Build every matrix cell, the product and the docs, then write the archive"`
	CheckVersion CheckVersionCmd `cmd:"" name:"check-version" help:"Fail if the version is already tagged on the product remote"`
	Plan         PlanCmd         `cmd:"" help:"Print the stages a build would run"`
	Docs         DocsCmd         `cmd:"" help:"Generate the HTML documentation only"`
	Init         InitCmd         `cmd:"" help:"Write an example release configuration"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel honours LogLevelEnv first, then --verbose.
func parseLogLevel(verbose bool) slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(LogLevelEnv))) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// loadRelease parses the version argument and loads the configuration.
func (c *CLI) loadRelease(raw string, opts ...pipeline.Option) (*pipeline.Release, release.Version, error) {
	v, err := release.ParseVersion(raw)
	if err != nil {
		return nil, release.Version{}, err
	}
	r, err := c.newRelease(opts...)
	return r, v, err
}

func (c *CLI) newRelease(opts ...pipeline.Option) (*pipeline.Release, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if c.Verbose {
		opts = append([]pipeline.Option{pipeline.WithProgress(os.Stderr)}, opts...)
	}
	return pipeline.New(cfg, opts...)
}

// recorder returns a Prometheus recorder when --metrics-file is set.
func (c *CLI) recorder() *metrics.PrometheusRecorder {
	if c.MetricsFile == "" {
		return nil
	}
	return metrics.NewPrometheusRecorder(nil)
}

// flushMetrics writes the textfile; failures are logged and never fail the run.
func (c *CLI) flushMetrics(rec *metrics.PrometheusRecorder) {
	if rec == nil {
		return
	}
	if err := rec.WriteTextfile(c.MetricsFile); err != nil {
		slog.Warn("Failed to write metrics file", logfields.Path(c.MetricsFile), logfields.Error(err))
		return
	}
	slog.Debug("Metrics written", logfields.Path(c.MetricsFile))
}
