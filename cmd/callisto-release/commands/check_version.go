package commands

import (
	"context"
	"fmt"
)

// CheckVersionCmd implements the 'check-version' command.
type CheckVersionCmd struct {
	Release string `arg:"" name:"version" help:"Release version, e.g. 0.2.4"`
}

func (c *CheckVersionCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	r, v, err := root.loadRelease(c.Release)
	if err != nil {
		return err
	}
	if err := r.CheckVersion(ctx, v); err != nil {
		return err
	}
	_, err = fmt.Fprintf(g.out(), "%s is unused\n", v)
	return err
}
