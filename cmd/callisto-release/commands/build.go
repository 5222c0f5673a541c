package commands

import (
	"context"

	"github.com/underrout/callisto-release/internal/pipeline"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Release string `arg:"" name:"version" help:"Release version, e.g. 0.2.4"`
}

func (b *BuildCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	var opts []pipeline.Option
	rec := root.recorder()
	if rec != nil {
		opts = append(opts, pipeline.WithRecorder(rec))
	}
	r, v, err := root.loadRelease(b.Release, opts...)
	if err != nil {
		return err
	}

	report, runErr := r.Run(ctx, v)
	if report != nil {
		if err := report.WriteSummary(g.out()); err != nil && runErr == nil {
			runErr = err
		}
	}
	root.flushMetrics(rec)
	return runErr
}
