package git

import (
	stderrors "errors"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/underrout/callisto-release/internal/foundation/errors"
)

// classifyGitError translates go-git failures into ClassifiedErrors carrying op, url and ref.
func classifyGitError(err error, op, url, ref string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	builder := errors.RepoSyncError(op+" failed for "+url).
		WithCause(err).
		WithContext("op", op).
		WithContext("url", url)
	if ref != "" {
		builder.WithContext("ref", ref)
	}

	l := strings.ToLower(err.Error())
	switch {
	case stderrors.Is(err, transport.ErrAuthenticationRequired),
		stderrors.Is(err, transport.ErrAuthorizationFailed),
		strings.Contains(l, "authentication failed"),
		strings.Contains(l, "invalid credentials"):
		builder.WithCategory(errors.CategoryAuth)
	case stderrors.Is(err, transport.ErrRepositoryNotFound),
		strings.Contains(l, "repository not found"):
		builder.WithContext("not_found", true)
	}
	return builder.Build()
}
