package mocks

import (
	"context"
	"fmt"
	"os"

	"github.com/jmcdonald/dfircase/internal/ports"
)

// MockLocator implements ports.BackendLocator for testing.
type MockLocator struct {
	Handle ports.BackendHandle
	// Missing makes Resolve fail with ports.ErrBackendNotFound
	Missing bool
	// Calls counts Resolve calls
	Calls int
	Name  string
}

// NewMockLocator creates a locator that resolves to a fake 7z.
func NewMockLocator() *MockLocator {
	return &MockLocator{
		Handle: ports.BackendHandle{Executable: "/opt/7-Zip/7z", Companions: []string{"/opt/7-Zip/7z.dll"}},
		Name:   "installed",
	}
}

// Resolve returns Handle, or ErrBackendNotFound when Missing is set.
func (m *MockLocator) Resolve() (ports.BackendHandle, error) {
	m.Calls++
	if m.Missing {
		return ports.BackendHandle{}, fmt.Errorf("%w: missing %s", ports.ErrBackendNotFound, m.Handle.Executable)
	}
	return m.Handle, nil
}

// Strategy returns Name.
func (m *MockLocator) Strategy() string { return m.Name }

// MockCompressor implements ports.Compressor for testing.
type MockCompressor struct {
	Calls []CompressCall
	// Err is returned from CreateEncrypted when set
	Err error
	// WriteOutput makes CreateEncrypted write a placeholder file at destPath
	WriteOutput bool
}

// CompressCall records parameters of a CreateEncrypted call.
type CompressCall struct {
	Handle    ports.BackendHandle
	DestPath  string
	SourceDir string
	Password  string
}

// NewMockCompressor creates a compressor that writes its output file.
func NewMockCompressor() *MockCompressor {
	return &MockCompressor{WriteOutput: true}
}

// CreateEncrypted records the call and optionally writes a placeholder archive.
func (m *MockCompressor) CreateEncrypted(ctx context.Context, h ports.BackendHandle, destPath, sourceDir, password string) error {
	m.Calls = append(m.Calls, CompressCall{
		Handle:    h,
		DestPath:  destPath,
		SourceDir: sourceDir,
		Password:  password,
	})
	if m.Err != nil {
		return m.Err
	}
	if m.WriteOutput {
		return os.WriteFile(destPath, []byte("PK\x05\x06 aes256"), 0644)
	}
	return nil
}

// Compile-time checks.
var (
	_ ports.BackendLocator = (*MockLocator)(nil)
	_ ports.Compressor     = (*MockCompressor)(nil)
)
