// Package cases lists and scaffolds case folders in a working directory.
package cases

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmcdonald/dfircase/internal/ports"
)

// ErrInvalidCaseName is returned for empty names and names that would
// escape the working directory.
var ErrInvalidCaseName = errors.New("invalid case name")

// KeywordsFile is created empty at the root of every case.
const KeywordsFile = "Keywords.txt"

// Layout is the directory skeleton of a new case, relative to its root.
var Layout = []string{
	"01 - Evidence",
	"02 - Case",
	"03 - Malware",
	filepath.Join("04 - Extracted Evidence", "01 - Axiom"),
	filepath.Join("04 - Extracted Evidence", "02 - XWays"),
	filepath.Join("04 - Extracted Evidence", "03 - Thor"),
	filepath.Join("04 - Extracted Evidence", "04 - Hayabusa"),
}

// Service lists and creates cases below a working directory.
type Service struct {
	fs      ports.FileSystem
	workDir string
}

// NewService creates a case service rooted at workDir.
func NewService(fs ports.FileSystem, workDir string) *Service {
	return &Service{fs: fs, workDir: workDir}
}

// List returns the names of all directories directly below the working
// directory, sorted by name.
func (s *Service) List() ([]string, error) {
	entries, err := s.fs.ReadDir(s.workDir)
	if err != nil {
		return nil, err
	}

	var folders []string
	for _, entry := range entries {
		if entry.IsDir() {
			folders = append(folders, entry.Name())
		}
	}
	sort.Strings(folders)
	return folders, nil
}

// Create builds the case skeleton for name and returns the case path.
// Existing folders are reused and an existing keywords file is kept.
func (s *Service) Create(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return "", err
	}

	root := filepath.Join(s.workDir, name)
	for _, dir := range Layout {
		if err := s.fs.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			return "", fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := s.fs.Touch(filepath.Join(root, KeywordsFile)); err != nil {
		return "", fmt.Errorf("creating %s: %w", KeywordsFile, err)
	}
	return root, nil
}

// ValidateName rejects names that are empty or are not a single path element.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidCaseName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidCaseName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidCaseName, name)
	case filepath.IsAbs(name) || filepath.VolumeName(name) != "":
		return fmt.Errorf("%w: %q is a path", ErrInvalidCaseName, name)
	}
	return nil
}
