package git

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/underrout/callisto-release/internal/config"
	"github.com/underrout/callisto-release/internal/foundation/errors"
	helpers "github.com/underrout/callisto-release/internal/testutil/testutils"
)

// snapshot captures HEAD plus every worktree file so two sync results can be compared.
type snapshot struct {
	head   string
	branch string
	files  map[string]string
}

func takeSnapshot(t *testing.T, path string) snapshot {
	t.Helper()
	repo, err := git.PlainOpen(path)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)

	files := map[string]string{}
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		if !d.IsDir() {
			data, readErr := os.ReadFile(p)
			if readErr != nil {
				return readErr
			}
			rel, _ := filepath.Rel(path, p)
			files[filepath.ToSlash(rel)] = string(data)
		}
		return nil
	})
	require.NoError(t, err)
	return snapshot{head: head.Hash().String(), branch: head.Name().String(), files: files}
}

func seedDependency(t *testing.T) (*helpers.TestRemote, map[string]string) {
	t.Helper()
	remote := helpers.SetupTestRemote(t)
	a := remote.Commit(t, map[string]string{"src/CMakeLists.txt": "v1.81"}, "asar 1.81")
	remote.Tag(t, "c-v1.81-2", a, true)
	b := remote.Commit(t, map[string]string{"src/CMakeLists.txt": "v1.91"}, "asar 1.91")
	remote.Tag(t, "c-v1.91-2", b, false)
	remote.Commit(t, map[string]string{"src/CMakeLists.txt": "unreleased"}, "wip")
	remote.Push(t)
	return remote, map[string]string{"c-v1.81-2": a.String(), "c-v1.91-2": b.String()}
}

func TestSyncPinnedChecksOutTags(t *testing.T) {
	remote, tags := seedDependency(t)
	client := NewClient(t.TempDir())
	ctx := context.Background()

	path, err := client.Sync(ctx, config.Repository{Name: "asar", URL: remote.URL, Ref: "c-v1.81-2", Policy: config.PolicyPinned})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(client.WorkspaceDir(), "asar"), path)
	assert.Equal(t, tags["c-v1.81-2"], helpers.HeadHash(t, path).String())
	helpers.NewFileAssertions(t, path).AssertFileEquals("src/CMakeLists.txt", "v1.81")

	// Same folder, next revision: fetch path plus forced checkout.
	_, err = client.Sync(ctx, config.Repository{Name: "asar", URL: remote.URL, Ref: "c-v1.91-2", Policy: config.PolicyPinned})
	require.NoError(t, err)
	assert.Equal(t, tags["c-v1.91-2"], helpers.HeadHash(t, path).String())
	helpers.NewFileAssertions(t, path).AssertFileEquals("src/CMakeLists.txt", "v1.91")
}

func TestSyncPinnedDiscardsLocalEdits(t *testing.T) {
	remote, _ := seedDependency(t)
	client := NewClient(t.TempDir())
	repo := config.Repository{Name: "asar", URL: remote.URL, Ref: "c-v1.81-2", Policy: config.PolicyPinned}

	path, err := client.Sync(context.Background(), repo)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(path, "src", "CMakeLists.txt"), []byte("edited"), 0o600))

	_, err = client.Sync(context.Background(), repo)
	require.NoError(t, err)
	helpers.NewFileAssertions(t, path).AssertFileEquals("src/CMakeLists.txt", "v1.81")
}

func TestSyncIsIdempotent(t *testing.T) {
	for _, policy := range []config.SyncPolicy{config.PolicyPinned, config.PolicyFloating} {
		t.Run(string(policy), func(t *testing.T) {
			remote, _ := seedDependency(t)
			ref := "c-v1.91-2"
			if policy == config.PolicyFloating {
				ref = remote.Branch(t)
			}
			client := NewClient(t.TempDir())
			repo := config.Repository{Name: "dep", URL: remote.URL, Ref: ref, Policy: policy}

			path, err := client.Sync(context.Background(), repo)
			require.NoError(t, err)
			first := takeSnapshot(t, path)

			_, err = client.Sync(context.Background(), repo)
			require.NoError(t, err)
			second := takeSnapshot(t, path)

			assert.Equal(t, first, second)
		})
	}
}

func TestSyncFloatingResetsToRemoteTip(t *testing.T) {
	remote := helpers.SetupTestRemote(t)
	remote.Commit(t, map[string]string{"Home.md": "v1"}, "first")
	remote.Push(t)
	branch := remote.Branch(t)

	client := NewClient(t.TempDir())
	repo := config.Repository{Name: "callisto-docs", URL: remote.URL, Ref: branch, Policy: config.PolicyFloating}
	path, err := client.Sync(context.Background(), repo)
	require.NoError(t, err)

	// Diverge locally: a local commit plus an uncommitted edit.
	local, err := git.PlainOpen(path)
	require.NoError(t, err)
	helpers.CommitFiles(t, local, path, map[string]string{"local.md": "local only"}, "local change")
	require.NoError(t, os.WriteFile(filepath.Join(path, "Home.md"), []byte("dirty"), 0o600))

	tip := remote.Commit(t, map[string]string{"Home.md": "v2"}, "second")
	remote.Push(t)

	_, err = client.Sync(context.Background(), repo)
	require.NoError(t, err)

	assert.Equal(t, tip, helpers.HeadHash(t, path))
	fa := helpers.NewFileAssertions(t, path)
	fa.AssertFileEquals("Home.md", "v2")
	fa.AssertNotExists("local.md")

	head, err := local.Head()
	require.NoError(t, err)
	assert.Equal(t, branch, head.Name().Short())
}

func TestSyncMissingReference(t *testing.T) {
	remote, _ := seedDependency(t)
	client := NewClient(t.TempDir())

	_, err := client.Sync(context.Background(), config.Repository{Name: "asar", URL: remote.URL, Ref: "c-v9.99", Policy: config.PolicyPinned})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryRepoSync))
	ref, _ := errors.ContextString(err, "ref")
	assert.Equal(t, "c-v9.99", ref)
}

func TestSyncCloneFailureLeavesNoFolder(t *testing.T) {
	client := NewClient(t.TempDir())
	missing := filepath.Join(t.TempDir(), "does-not-exist.git")

	_, err := client.Sync(context.Background(), config.Repository{Name: "asar", URL: missing, Ref: "c-v1.81-2", Policy: config.PolicyPinned})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryRepoSync))
	op, _ := errors.ContextString(err, "op")
	assert.Equal(t, "clone", op)
	assert.NoDirExists(t, filepath.Join(client.WorkspaceDir(), "asar"))
}

func TestSyncCreatesWorkspaceDir(t *testing.T) {
	remote, tags := seedDependency(t)
	var progress bytes.Buffer
	client := NewClient(filepath.Join(t.TempDir(), "release", "build")).WithProgress(&progress)

	path, err := client.Sync(context.Background(), config.Repository{Name: "asar", URL: remote.URL, Ref: "c-v1.81-2", Policy: config.PolicyPinned})
	require.NoError(t, err)
	assert.Equal(t, tags["c-v1.81-2"], helpers.HeadHash(t, path).String())
}

func TestSyncWorkspaceBlockedByFile(t *testing.T) {
	blocked := filepath.Join(t.TempDir(), "build")
	require.NoError(t, os.WriteFile(blocked, []byte("not a directory"), 0o600))
	client := NewClient(blocked)

	_, err := client.Sync(context.Background(), config.Repository{Name: "asar", URL: "file:///nowhere", Ref: "c-v1.81-2", Policy: config.PolicyPinned})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestSyncRefusesForeignFolder(t *testing.T) {
	remote, _ := seedDependency(t)
	client := NewClient(t.TempDir())
	foreign := filepath.Join(client.WorkspaceDir(), "asar")
	require.NoError(t, os.MkdirAll(foreign, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(foreign, "notes.txt"), []byte("keep"), 0o600))

	_, err := client.Sync(context.Background(), config.Repository{Name: "asar", URL: remote.URL, Ref: "c-v1.81-2", Policy: config.PolicyPinned})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a git working copy")
	assert.FileExists(t, filepath.Join(foreign, "notes.txt"))
}

func TestSyncRejectsUnknownPolicy(t *testing.T) {
	client := NewClient(t.TempDir())
	_, err := client.Sync(context.Background(), config.Repository{Name: "x", URL: "file:///nowhere", Ref: "main", Policy: "sometimes"})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestSyncRepointsChangedOrigin(t *testing.T) {
	first, _ := seedDependency(t)
	second, tags := seedDependency(t)
	client := NewClient(t.TempDir())
	ctx := context.Background()

	_, err := client.Sync(ctx, config.Repository{Name: "asar", URL: first.URL, Ref: "c-v1.81-2", Policy: config.PolicyPinned})
	require.NoError(t, err)
	path, err := client.Sync(ctx, config.Repository{Name: "asar", URL: second.URL, Ref: "c-v1.81-2", Policy: config.PolicyPinned})
	require.NoError(t, err)

	url, err := RemoteURL(path, "origin")
	require.NoError(t, err)
	assert.Equal(t, second.URL, url)
	assert.Equal(t, tags["c-v1.81-2"], helpers.HeadHash(t, path).String())
}
