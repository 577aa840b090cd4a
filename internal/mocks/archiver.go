package mocks

import (
	"os"

	"github.com/jmcdonald/dfircase/internal/ports"
)

// MockArchiver implements ports.Archiver for testing.
type MockArchiver struct {
	// CreateCalls records calls to Create
	CreateCalls []CreateCall
	// Err is returned from Create when set
	Err error
	// WriteOutput makes Create write a placeholder file at destPath
	WriteOutput bool
	// CreateResult is the file count to return
	CreateResult int
}

// CreateCall records parameters of a Create call.
type CreateCall struct {
	DestPath  string
	SourceDir string
}

// NewMockArchiver creates a mock archiver that writes its output file.
func NewMockArchiver() *MockArchiver {
	return &MockArchiver{
		WriteOutput:  true,
		CreateResult: 1, // Default to 1 file
	}
}

// Create records the call and optionally writes a placeholder archive.
func (m *MockArchiver) Create(destPath, sourceDir string) (int, error) {
	m.CreateCalls = append(m.CreateCalls, CreateCall{
		DestPath:  destPath,
		SourceDir: sourceDir,
	})
	if m.Err != nil {
		return 0, m.Err
	}
	if m.WriteOutput {
		if err := os.WriteFile(destPath, []byte("PK\x05\x06 standard"), 0644); err != nil {
			return 0, err
		}
	}
	return m.CreateResult, nil
}

// Compile-time check that MockArchiver implements ports.Archiver.
var _ ports.Archiver = (*MockArchiver)(nil)
