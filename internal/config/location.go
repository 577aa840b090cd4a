package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jmcdonald/dfircase/internal/ports"
)

// ErrNotDirectory is returned by Write for a location that is not an
// existing directory. The stored location is left unchanged.
var ErrNotDirectory = errors.New("backup location is not a directory")

// LocationStore persists the backup destination as a single line of text.
type LocationStore struct {
	fs   ports.FileSystem
	path string
}

// NewLocationStore returns a store backed by the file at path.
func NewLocationStore(fs ports.FileSystem, path string) *LocationStore {
	return &LocationStore{fs: fs, path: path}
}

// Path returns the file the location is stored in.
func (s *LocationStore) Path() string { return s.path }

// Read returns the stored location. It reports false when the file is
// missing, unreadable, or names something that is not a directory.
func (s *LocationStore) Read() (string, bool) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	location := strings.TrimSpace(string(data))
	if location == "" {
		return "", false
	}
	info, err := s.fs.Stat(location)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return location, true
}

// Write replaces the stored location with the absolute form of location.
// Anything other than an existing directory is refused before the file
// is touched.
func (s *LocationStore) Write(location string) error {
	location = ExpandPath(strings.TrimSpace(location))
	if location == "" {
		return fmt.Errorf("%w: empty path", ErrNotDirectory)
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return err
	}
	info, err := s.fs.Stat(abs)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}
	return s.fs.WriteFile(s.path, []byte(abs), 0644)
}
