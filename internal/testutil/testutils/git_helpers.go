package helpers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// SetupTestGitRepo initializes a temporary git repository for testing.
// Returns the repository, its worktree, and the absolute path to the temporary directory.
func SetupTestGitRepo(t *testing.T) (*git.Repository, *git.Worktree, string) {
	t.Helper()

	tempDir := t.TempDir()

	repo, err := git.PlainInit(tempDir, false)
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}

	return repo, w, tempDir
}

// TestRemote is a bare repository plus the working clone used to publish into it.
type TestRemote struct {
	// URL is the bare repository path, usable as a clone URL.
	URL      string
	Seed     *git.Repository
	SeedPath string
}

// SetupTestRemote creates a bare repository and a seed working copy with origin pointing at it.
func SetupTestRemote(t *testing.T) *TestRemote {
	t.Helper()
	root := t.TempDir()

	bare := filepath.Join(root, "remote.git")
	if _, err := git.PlainInit(bare, true); err != nil {
		t.Fatalf("init bare: %v", err)
	}
	seedPath := filepath.Join(root, "seed")
	seed, err := git.PlainInit(seedPath, false)
	if err != nil {
		t.Fatalf("init seed: %v", err)
	}
	if _, err := seed.CreateRemote(&ggitcfg.RemoteConfig{Name: "origin", URLs: []string{bare}}); err != nil {
		t.Fatalf("create remote: %v", err)
	}
	return &TestRemote{URL: bare, Seed: seed, SeedPath: seedPath}
}

// Commit writes files into the seed working copy and commits them.
func (r *TestRemote) Commit(t *testing.T, files map[string]string, msg string) plumbing.Hash {
	t.Helper()
	return CommitFiles(t, r.Seed, r.SeedPath, files, msg)
}

// Tag creates a lightweight tag, or an annotated one when annotated is true.
func (r *TestRemote) Tag(t *testing.T, name string, hash plumbing.Hash, annotated bool) {
	t.Helper()
	var opts *git.CreateTagOptions
	if annotated {
		opts = &git.CreateTagOptions{Message: name, Tagger: signature()}
	}
	if _, err := r.Seed.CreateTag(name, hash, opts); err != nil {
		t.Fatalf("tag %s: %v", name, err)
	}
}

// Push publishes all branches and tags of the seed to the bare remote, forcing updates.
func (r *TestRemote) Push(t *testing.T) {
	t.Helper()
	err := r.Seed.Push(&git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []ggitcfg.RefSpec{"+refs/heads/*:refs/heads/*", "+refs/tags/*:refs/tags/*"},
		Force:      true,
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		t.Fatalf("push: %v", err)
	}
}

// Branch returns the name of the seed's current branch (master or main depending on defaults).
func (r *TestRemote) Branch(t *testing.T) string {
	t.Helper()
	head, err := r.Seed.Head()
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	return head.Name().Short()
}

// CommitFiles writes files relative to repoPath and commits them.
func CommitFiles(t *testing.T, repo *git.Repository, repoPath string, files map[string]string, msg string) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	for name, content := range files {
		full := filepath.Join(repoPath, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if _, err := wt.Add(filepath.ToSlash(name)); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}
	hash, err := wt.Commit(msg, &git.CommitOptions{Author: signature()})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash
}

// HeadHash returns the HEAD commit of the repository at path.
func HeadHash(t *testing.T, path string) plumbing.Hash {
	t.Helper()
	repo, err := git.PlainOpen(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	return head.Hash()
}

func signature() *object.Signature {
	return &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()}
}
