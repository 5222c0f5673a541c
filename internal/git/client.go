package git

import (
	"io"
	"os"

	"github.com/underrout/callisto-release/internal/config"
	"github.com/underrout/callisto-release/internal/foundation/errors"
)

// Client handles Git operations for repositories kept under a work directory.
type Client struct {
	workspaceDir string
	progress     io.Writer
	remoteAuth   *config.AuthConfig
}

// NewClient creates a new Git client with the specified workspace directory.
func NewClient(workspaceDir string) *Client { return &Client{workspaceDir: workspaceDir} }

// WithProgress streams clone/fetch progress to w (fluent helper).
func (c *Client) WithProgress(w io.Writer) *Client { c.progress = w; return c }

// WithRemoteAuth sets the credentials used for remote tag listing (fluent helper).
func (c *Client) WithRemoteAuth(auth *config.AuthConfig) *Client { c.remoteAuth = auth; return c }

// WorkspaceDir returns the directory repositories are synchronized into.
func (c *Client) WorkspaceDir() string { return c.workspaceDir }

// EnsureWorkspace creates the workspace directory if it doesn't exist.
func (c *Client) EnsureWorkspace() error {
	if err := os.MkdirAll(c.workspaceDir, 0o750); err != nil {
		return errors.NewError(errors.CategoryFileSystem, "failed to create workspace directory").
			WithCause(err).
			WithContext("path", c.workspaceDir).
			Build()
	}
	return nil
}
