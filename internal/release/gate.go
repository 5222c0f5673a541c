package release

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/underrout/callisto-release/internal/foundation/errors"
	"github.com/underrout/callisto-release/internal/logfields"
)

// TagLister lists the tag names published on a remote repository.
type TagLister interface {
	ListRemoteTags(ctx context.Context, url string) ([]string, error)
}

// Gate refuses versions whose canonical tag already exists on the product remote.
type Gate struct {
	lister    TagLister
	remoteURL string
}

// NewGate creates a version gate for the given remote.
func NewGate(lister TagLister, remoteURL string) *Gate {
	return &Gate{lister: lister, remoteURL: remoteURL}
}

// Check performs a read-only query of the remote tags. Tag names must match exactly.
func (g *Gate) Check(ctx context.Context, v Version) error {
	tags, err := g.lister.ListRemoteTags(ctx, g.remoteURL)
	if err != nil {
		return err
	}
	tag := v.String()
	if slices.Contains(tags, tag) {
		return errors.VersionConflictError(fmt.Sprintf("version %s already used", tag)).
			WithContext("version", tag).
			WithContext("url", g.remoteURL).
			Build()
	}
	slog.Debug("Version is unused", logfields.Version(tag), logfields.URL(g.remoteURL), logfields.Count(len(tags)))
	return nil
}
