// Package preflight validates archive destinations before anything is written.
package preflight

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNotDirectory is returned when the destination is not a directory.
	ErrNotDirectory = errors.New("destination is not a directory")
	// ErrNotWritable is returned when the destination cannot be written to.
	ErrNotWritable = errors.New("destination is not writable")
)

// CheckDestination verifies that dir exists, is a directory and is writable.
func CheckDestination(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("destination %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	if err := checkWritable(dir); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotWritable, dir, err)
	}
	return nil
}
