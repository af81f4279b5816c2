package git

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/bashhack/ssamgit/internal/errors"
)

// MarkerDir is the directory whose presence marks an initialized repository.
const MarkerDir = ".git"

// Client issues the fixed set of git commands ssamgit needs.
// Every method maps to exactly one git invocation.
type Client struct {
	dir    string
	runner Commander
	fs     afero.Fs
}

// NewClient creates a Client that runs git in dir
func NewClient(dir string) *Client {
	return NewClientWithRunner(dir, NewRunner(dir))
}

// NewClientWithRunner creates a Client with a custom runner
func NewClientWithRunner(dir string, runner Commander) *Client {
	return &Client{
		dir:    dir,
		runner: runner,
		fs:     afero.NewOsFs(),
	}
}

// WithFs replaces the filesystem used to look for the repository marker.
func (c *Client) WithFs(fs afero.Fs) *Client {
	c.fs = fs
	return c
}

// Dir returns the working tree directory
func (c *Client) Dir() string {
	return c.dir
}

// Version runs `git --version`.
func (c *Client) Version(ctx context.Context) (string, error) {
	return c.runner.Run(ctx, "--version")
}

// Init runs `git init`.
func (c *Client) Init(ctx context.Context) (string, error) {
	return c.runner.Run(ctx, "init")
}

// Status runs `git status --porcelain`.
func (c *Client) Status(ctx context.Context) (string, error) {
	return c.runner.Run(ctx, "status", "--porcelain")
}

// AddAll stages every change in the working tree.
func (c *Client) AddAll(ctx context.Context) (string, error) {
	return c.runner.Run(ctx, "add", ".")
}

// Commit commits all staged and tracked changes with message.
// The message must be generated by the caller, never taken from a request.
func (c *Client) Commit(ctx context.Context, message string) (string, error) {
	return c.runner.Run(ctx, "commit", "-am", message)
}

// ShortHead resolves the abbreviated hash of HEAD. The output is returned
// untrimmed.
func (c *Client) ShortHead(ctx context.Context) (string, error) {
	return c.runner.Run(ctx, "rev-parse", "--short", "HEAD")
}

// HasRepository reports whether the marker directory exists in the working
// tree. The result is never cached.
func (c *Client) HasRepository() (bool, error) {
	return hasMarker(c.fs, c.dir)
}

// IsRepository checks whether path contains the repository marker directory
func IsRepository(path string) (bool, error) {
	return hasMarker(afero.NewOsFs(), path)
}

func hasMarker(fs afero.Fs, path string) (bool, error) {
	if path == "" {
		path = "."
	}
	// Worktrees and submodules use a .git file, which counts as present too.
	_, err := fs.Stat(filepath.Join(path, MarkerDir))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "failed to stat %s", MarkerDir)
	}
	return true, nil
}
