package git

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/underrout/callisto-release/internal/config"
	"github.com/underrout/callisto-release/internal/foundation/errors"
	"github.com/underrout/callisto-release/internal/logfields"
)

var fetchRefSpecs = []ggitcfg.RefSpec{
	"+refs/heads/*:refs/remotes/origin/*",
	"+refs/tags/*:refs/tags/*",
}

// Sync brings the working copy <workspace>/<repo.Name> to repo.Ref under repo.Policy and
// returns its path. A missing folder is cloned; an existing one is fetched.
func (c *Client) Sync(ctx context.Context, repo config.Repository) (string, error) {
	repoPath := filepath.Join(c.workspaceDir, repo.Name)
	log := slog.With(logfields.Repository(repo.Name), logfields.Ref(repo.Ref), logfields.Policy(string(repo.Policy)))

	switch repo.Policy {
	case config.PolicyPinned, config.PolicyFloating:
	default:
		return "", errors.ValidationError(fmt.Sprintf("unsupported sync policy %q for %s", repo.Policy, repo.Name)).
			WithContext("url", repo.URL).
			Build()
	}

	if err := c.EnsureWorkspace(); err != nil {
		return "", err
	}
	repository, cloned, err := c.openOrClone(ctx, repoPath, repo)
	if err != nil {
		return "", err
	}
	if !cloned {
		log.Debug("Fetching existing working copy", logfields.Path(repoPath))
		if err := c.fetchOrigin(ctx, repository, repo); err != nil {
			return "", err
		}
	}

	wt, err := repository.Worktree()
	if err != nil {
		return "", classifyGitError(err, "worktree", repo.URL, repo.Ref)
	}

	var head plumbing.Hash
	if repo.Policy == config.PolicyPinned {
		head, err = checkoutPinned(repository, wt, repo)
	} else {
		head, err = resetFloating(repository, wt, repo)
	}
	if err != nil {
		return "", err
	}

	log.Info("Repository synchronized", slog.Bool("cloned", cloned), slog.String("commit", head.String()[:8]), logfields.Path(repoPath))
	return repoPath, nil
}

// openOrClone opens an existing working copy or clones into an absent (or empty) folder.
func (c *Client) openOrClone(ctx context.Context, repoPath string, repo config.Repository) (*git.Repository, bool, error) {
	if _, err := os.Stat(filepath.Join(repoPath, ".git")); err == nil {
		repository, openErr := git.PlainOpen(repoPath)
		if openErr != nil {
			return nil, false, classifyGitError(openErr, "open", repo.URL, repo.Ref)
		}
		if err := ensureOriginURL(repository, repo); err != nil {
			return nil, false, err
		}
		return repository, false, nil
	}

	if entries, err := os.ReadDir(repoPath); err == nil && len(entries) > 0 {
		return nil, false, errors.RepoSyncError(fmt.Sprintf("%s exists but is not a git working copy", repoPath)).
			WithContext("op", "clone").
			WithContext("url", repo.URL).
			WithContext("path", repoPath).
			Build()
	}

	slog.Debug("Cloning repository", logfields.URL(repo.URL), logfields.Repository(repo.Name), logfields.Path(repoPath))
	opts := &git.CloneOptions{URL: repo.URL, Tags: git.AllTags, Progress: c.progress}
	auth, err := getAuthentication(repo.Auth)
	if err != nil {
		return nil, false, errors.WrapError(err, errors.CategoryAuth, "failed to setup authentication").
			WithContext("url", repo.URL).
			Build()
	}
	opts.Auth = auth

	repository, err := git.PlainCloneContext(ctx, repoPath, false, opts)
	if err != nil {
		// A half-written clone would be mistaken for a working copy on the next run.
		_ = os.RemoveAll(repoPath)
		return nil, false, classifyGitError(err, "clone", repo.URL, repo.Ref)
	}
	return repository, true, nil
}

// ensureOriginURL repoints origin when the configured URL changed since the clone.
func ensureOriginURL(repository *git.Repository, repo config.Repository) error {
	remote, err := repository.Remote("origin")
	if err == nil {
		urls := remote.Config().URLs
		if len(urls) > 0 && urls[0] == repo.URL {
			return nil
		}
		slog.Warn("Origin URL changed, updating remote", logfields.Repository(repo.Name), logfields.URL(repo.URL))
		if err := repository.DeleteRemote("origin"); err != nil {
			return classifyGitError(err, "remote", repo.URL, repo.Ref)
		}
	}
	if _, err := repository.CreateRemote(&ggitcfg.RemoteConfig{Name: "origin", URLs: []string{repo.URL}}); err != nil {
		return classifyGitError(err, "remote", repo.URL, repo.Ref)
	}
	return nil
}

// fetchOrigin fetches every branch into refs/remotes/origin and every tag, forcing moved tags.
func (c *Client) fetchOrigin(ctx context.Context, repository *git.Repository, repo config.Repository) error {
	fetchOpts := &git.FetchOptions{
		RemoteName: "origin",
		RefSpecs:   fetchRefSpecs,
		Tags:       git.AllTags,
		Force:      true,
		Progress:   c.progress,
	}
	auth, err := getAuthentication(repo.Auth)
	if err != nil {
		return errors.WrapError(err, errors.CategoryAuth, "failed to setup authentication").
			WithContext("url", repo.URL).
			Build()
	}
	fetchOpts.Auth = auth
	if err := repository.FetchContext(ctx, fetchOpts); err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		return classifyGitError(err, "fetch", repo.URL, repo.Ref)
	}
	return nil
}

// checkoutPinned force-checks out the commit a tag points to, leaving HEAD detached.
func checkoutPinned(repository *git.Repository, wt *git.Worktree, repo config.Repository) (plumbing.Hash, error) {
	hash, err := repository.ResolveRevision(plumbing.Revision(plumbing.NewTagReferenceName(repo.Ref)))
	if err != nil {
		// Not a tag: accept a full commit id or any other revision go-git understands.
		hash, err = repository.ResolveRevision(plumbing.Revision(repo.Ref))
	}
	if err != nil {
		return plumbing.ZeroHash, classifyGitError(fmt.Errorf("reference %q not found: %w", repo.Ref, err), "checkout", repo.URL, repo.Ref)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return plumbing.ZeroHash, classifyGitError(err, "checkout", repo.URL, repo.Ref)
	}
	return *hash, nil
}

// resetFloating checks out the local branch (creating it from the remote branch when needed)
// and hard-resets it to origin/<branch>.
func resetFloating(repository *git.Repository, wt *git.Worktree, repo config.Repository) (plumbing.Hash, error) {
	localBranchRef := plumbing.NewBranchReferenceName(repo.Ref)
	remoteRef, err := repository.Reference(plumbing.NewRemoteReferenceName("origin", repo.Ref), true)
	if err != nil {
		return plumbing.ZeroHash, classifyGitError(fmt.Errorf("remote branch %q not found: %w", repo.Ref, err), "checkout", repo.URL, repo.Ref)
	}
	target := remoteRef.Hash()

	localRef, lerr := repository.Reference(localBranchRef, true)
	if lerr != nil {
		if err := wt.Checkout(&git.CheckoutOptions{Branch: localBranchRef, Hash: target, Create: true, Force: true}); err != nil {
			return plumbing.ZeroHash, classifyGitError(err, "checkout", repo.URL, repo.Ref)
		}
	} else {
		if err := wt.Checkout(&git.CheckoutOptions{Branch: localBranchRef, Force: true}); err != nil {
			return plumbing.ZeroHash, classifyGitError(err, "checkout", repo.URL, repo.Ref)
		}
		if localRef.Hash() != target {
			if ff, ffErr := isAncestor(repository, localRef.Hash(), target); ffErr == nil && !ff {
				slog.Warn("Local branch diverged, discarding local commits",
					logfields.Repository(repo.Name), logfields.Ref(repo.Ref),
					slog.String("from", localRef.Hash().String()[:8]), slog.String("to", target.String()[:8]))
			}
		}
	}

	if err := wt.Reset(&git.ResetOptions{Commit: target, Mode: git.HardReset}); err != nil {
		return plumbing.ZeroHash, classifyGitError(err, "reset", repo.URL, repo.Ref)
	}
	return target, nil
}
