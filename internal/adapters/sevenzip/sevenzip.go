// Package sevenzip provides the external compression backend adapter,
// running the 7-Zip executable via exec.CommandContext.
package sevenzip

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"path/filepath"

	"github.com/jmcdonald/dfircase/internal/ports"
)

// Client implements ports.Compressor by shelling out to 7-Zip.
type Client struct {
	// stdout and stderr receive the backend's console output.
	// Both default to nil, which discards it.
	stdout io.Writer
	stderr io.Writer
}

// Option is a functional option for configuring Client.
type Option func(*Client)

// WithOutput routes the backend's console output to w instead of
// discarding it. Used by --debug.
func WithOutput(w io.Writer) Option {
	return func(c *Client) {
		c.stdout = w
		c.stderr = w
	}
}

// New creates a new 7-Zip client.
func New(opts ...Option) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateEncrypted runs `7z a -tzip <dest> <source>/* -p<password> -mem=AES256`.
// A non-zero exit status is not an error here; callers check for the
// archive on disk instead.
func (c *Client) CreateEncrypted(ctx context.Context, h ports.BackendHandle, destPath, sourceDir, password string) error {
	cmd := exec.CommandContext(ctx, h.Executable, buildArgs(destPath, sourceDir, password)...)
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return &ports.LaunchError{Executable: h.Executable, Err: err}
}

func buildArgs(destPath, sourceDir, password string) []string {
	return []string{
		"a",
		"-tzip",
		destPath,
		filepath.Join(sourceDir, "*"),
		"-p" + password,
		"-mem=AES256",
	}
}

// Compile-time check that Client implements ports.Compressor.
var _ ports.Compressor = (*Client)(nil)
