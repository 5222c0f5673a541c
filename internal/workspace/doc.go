// Package workspace manages the directories a release run works in.
//
// Persistent mode uses work_dir directly: repository working copies and cmake build caches
// live there across runs, and a lock file keeps two runs from writing the same package tree.
//
// Ephemeral mode creates a timestamped directory (e.g. callisto-docs-20261016-122336) for
// one-off output such as documentation previews and removes it on Cleanup.
package workspace
