package ports

import (
	"context"
	"errors"
	"fmt"
)

// ErrBackendNotFound is returned by a BackendLocator when the compression
// executable or one of its companion libraries is missing.
var ErrBackendNotFound = errors.New("compression backend not found")

// BackendHandle identifies a resolved compression backend on disk.
type BackendHandle struct {
	Executable string
	Companions []string
}

// BackendLocator resolves the external compression backend.
// Production code uses backend.BundledLocator or backend.InstalledLocator.
type BackendLocator interface {
	// Resolve returns the backend handle, or an error wrapping
	// ErrBackendNotFound when the backend is not usable.
	Resolve() (BackendHandle, error)

	// Strategy names the lookup strategy ("bundled" or "installed").
	Strategy() string
}

// Compressor runs the external compression backend.
// Production code uses the sevenzip adapter; tests use MockCompressor.
type Compressor interface {
	// CreateEncrypted builds an AES-256 encrypted zip at destPath holding
	// the top-level entries of sourceDir. The backend's exit status is not
	// reported; only failures to launch the process are returned, as
	// *LaunchError.
	CreateEncrypted(ctx context.Context, h BackendHandle, destPath, sourceDir, password string) error
}

// LaunchError reports that the backend process could not be started.
type LaunchError struct {
	Executable string
	Err        error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launching %s: %v", e.Executable, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }
