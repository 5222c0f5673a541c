package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// PlanCmd implements the 'plan' command. Nothing is synced, built or written.
type PlanCmd struct {
	Release string `arg:"" name:"version" help:"Release version, e.g. 0.2.4"`
}

func (p *PlanCmd) Run(g *Global, root *CLI) error {
	r, v, err := root.loadRelease(p.Release)
	if err != nil {
		return err
	}
	defs := r.Plan(v)

	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Release %s: %d stages\n", v, len(defs))
	for i, def := range defs {
		fmt.Fprintf(tw, "%3d\t%s\t%s\n", i+1, def.Name, strings.TrimSpace(def.Detail))
	}
	return tw.Flush()
}
