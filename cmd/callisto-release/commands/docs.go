package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/underrout/callisto-release/internal/docs"
	"github.com/underrout/callisto-release/internal/release"
	"github.com/underrout/callisto-release/internal/workspace"
)

// docsPreviewDir holds the pages inside a temporary docs workspace.
const docsPreviewDir = "html"

// DocsCmd implements the 'docs' command: the documentation stages without a package.
type DocsCmd struct {
	Release  string        `name:"release" help:"Version stamped into the pages" default:"0.0.0"`
	Source   string        `help:"Local documentation folder; skips syncing the docs repository" type:"existingdir"`
	Output   string        `short:"o" help:"Output directory (default: a new temporary directory)" type:"path"`
	Watch    bool          `short:"w" help:"Regenerate when the source folder changes"`
	Debounce time.Duration `help:"Quiet period before regenerating in watch mode" default:"500ms"`
}

func (d *DocsCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	v, err := release.ParseVersion(d.Release)
	if err != nil {
		return err
	}
	r, err := root.newRelease()
	if err != nil {
		return err
	}

	source := d.Source
	if source == "" {
		if source, err = r.SyncDocs(ctx); err != nil {
			return err
		}
	}

	output := d.Output
	if output == "" {
		ws := workspace.NewManager("", "callisto-docs")
		if err := ws.Create(); err != nil {
			return err
		}
		if output, err = ws.CreateSubdir(docsPreviewDir); err != nil {
			return err
		}
	}

	generate := func(ctx context.Context) error {
		res, err := r.Docs().Generate(ctx, source, output, v)
		if err != nil {
			return err
		}
		pages := 0
		if res != nil {
			pages = len(res.Pages)
		}
		_, err = fmt.Fprintf(g.out(), "Generated %d pages into %s\n", pages, output)
		return err
	}
	if err := generate(ctx); err != nil {
		return err
	}
	if !d.Watch {
		return nil
	}
	return docs.Watch(ctx, source, d.Debounce, generate)
}
