// Package git keeps long-lived working copies of external repositories in sync with their
// remotes and answers read-only questions about remotes (published tags, origin URL).
//
// Every repository is synchronized under an explicit policy:
//   - pinned: an immutable tag is checked out as a detached HEAD
//   - floating: a branch is hard-reset to the remote tip, discarding local divergence
//
// Both are idempotent: syncing twice with an unchanged remote leaves HEAD and the
// worktree untouched.
package git
