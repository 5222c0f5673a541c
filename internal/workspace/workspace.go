package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/underrout/callisto-release/internal/foundation/errors"
	"github.com/underrout/callisto-release/internal/logfields"
)

// LockFileName is created inside a persistent workspace while a run holds it.
const LockFileName = ".callisto-release.lock"

// Manager handles workspace operations (both temporary and persistent)
type Manager struct {
	baseDir    string
	prefix     string
	dir        string
	persistent bool
	lock       *flock.Flock
}

// NewManager creates a workspace manager with ephemeral timestamped directories
func NewManager(baseDir, prefix string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if prefix == "" {
		prefix = "callisto-release"
	}
	return &Manager{baseDir: baseDir, prefix: prefix}
}

// NewPersistentManager creates a workspace manager over a fixed directory that is never
// removed by Cleanup.
func NewPersistentManager(dir string) *Manager {
	return &Manager{baseDir: filepath.Dir(dir), dir: dir, persistent: true}
}

// Create creates a workspace directory
// For ephemeral mode: creates a timestamped directory
// For persistent mode: ensures the fixed directory exists
func (m *Manager) Create() error {
	if m.persistent {
		if err := os.MkdirAll(m.dir, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create work directory").
				Fatal().
				WithContext("path", m.dir).
				Build()
		}
		slog.Debug("Using persistent workspace", logfields.Path(m.dir))
		return nil
	}

	if err := os.MkdirAll(m.baseDir, 0o750); err != nil {
		return fmt.Errorf("failed to create workspace base directory: %w", err)
	}
	timestamp := time.Now().Format("20060102-150405")
	dir, err := os.MkdirTemp(m.baseDir, fmt.Sprintf("%s-%s-", m.prefix, timestamp))
	if err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}
	m.dir = dir
	slog.Info("Created workspace", logfields.Path(dir))
	return nil
}

// Path returns the workspace directory (empty before Create in ephemeral mode).
func (m *Manager) Path() string { return m.dir }

// Persistent reports whether Cleanup keeps the directory.
func (m *Manager) Persistent() bool { return m.persistent }

// Lock takes an OS-level lock on the workspace. A second Lock on the same directory fails
// while the holder keeps it; the lock is released by Unlock or when the holding process exits.
func (m *Manager) Lock() error {
	if m.dir == "" {
		return fmt.Errorf("workspace not created")
	}
	if m.lock != nil {
		return nil
	}
	path := filepath.Join(m.dir, LockFileName)
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to lock work directory").
			Fatal().
			WithContext("lock", path).
			Build()
	}
	if !locked {
		return errors.NewError(errors.CategoryFileSystem, "work directory is in use by another run").
			Fatal().
			WithContext("lock", path).
			Build()
	}
	m.lock = fl
	slog.Debug("Locked work directory", logfields.Path(path))
	return nil
}

// Unlock releases a lock taken with Lock. Unlocking an unlocked workspace is a no-op.
func (m *Manager) Unlock() error {
	if m.lock == nil {
		return nil
	}
	fl := m.lock
	m.lock = nil
	if err := fl.Unlock(); err != nil {
		return fmt.Errorf("failed to release work directory lock: %w", err)
	}
	return nil
}

// Cleanup removes an ephemeral workspace
// For persistent mode: releases the lock and keeps the directory
func (m *Manager) Cleanup() error {
	if m.dir == "" {
		return nil
	}
	if err := m.Unlock(); err != nil {
		return err
	}

	if m.persistent {
		slog.Debug("Skipping cleanup for persistent workspace", logfields.Path(m.dir))
		return nil
	}

	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to cleanup workspace: %w", err)
	}
	slog.Info("Cleaned up workspace", logfields.Path(m.dir))
	m.dir = ""
	return nil
}

// CreateSubdir creates a subdirectory within the workspace
func (m *Manager) CreateSubdir(name string) (string, error) {
	if m.dir == "" {
		return "", fmt.Errorf("workspace not created")
	}

	subdir := filepath.Join(m.dir, name)
	if err := os.MkdirAll(subdir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	return subdir, nil
}
