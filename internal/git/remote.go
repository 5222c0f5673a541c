package git

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/underrout/callisto-release/internal/foundation/errors"
)

// ListRemoteTags returns the short names of all tags advertised by the remote, sorted.
// Nothing is written locally.
func (c *Client) ListRemoteTags(ctx context.Context, url string) ([]string, error) {
	remote := git.NewRemote(memory.NewStorage(), &ggitcfg.RemoteConfig{Name: "origin", URLs: []string{url}})

	listOptions := &git.ListOptions{}
	auth, err := getAuthentication(c.remoteAuth)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryAuth, "failed to setup authentication").
			WithContext("url", url).
			Build()
	}
	listOptions.Auth = auth

	refs, err := remote.ListContext(ctx, listOptions)
	if err != nil {
		if stderrors.Is(err, transport.ErrEmptyRemoteRepository) {
			return nil, nil
		}
		return nil, classifyGitError(err, "ls-remote", url, "")
	}

	seen := map[string]bool{}
	tags := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.Type() == plumbing.SymbolicReference || !ref.Name().IsTag() {
			continue
		}
		name := strings.TrimSuffix(ref.Name().Short(), "^{}")
		if !seen[name] {
			seen[name] = true
			tags = append(tags, name)
		}
	}
	sort.Strings(tags)
	return tags, nil
}

// RemoteURL returns the first URL of the named remote in the working copy at repoPath.
func RemoteURL(repoPath, remoteName string) (string, error) {
	repository, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", classifyGitError(fmt.Errorf("open %s: %w", repoPath, err), "remote-url", repoPath, "")
	}
	remote, err := repository.Remote(remoteName)
	if err != nil {
		return "", classifyGitError(fmt.Errorf("remote %q: %w", remoteName, err), "remote-url", repoPath, "")
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", errors.RepoSyncError(fmt.Sprintf("remote %q of %s has no URL", remoteName, repoPath)).
			WithContext("path", repoPath).
			Build()
	}
	return urls[0], nil
}
