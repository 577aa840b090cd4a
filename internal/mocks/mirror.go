package mocks

import (
	"context"

	"github.com/jmcdonald/dfircase/internal/ports"
)

// MockMirror implements ports.Mirror for testing.
type MockMirror struct {
	Uploads []UploadCall
	Err     error
}

// UploadCall records parameters of an Upload call.
type UploadCall struct {
	LocalPath string
	Key       string
}

// NewMockMirror creates a new mock mirror.
func NewMockMirror() *MockMirror {
	return &MockMirror{}
}

// Upload records the call.
func (m *MockMirror) Upload(ctx context.Context, localPath, key string) (string, error) {
	m.Uploads = append(m.Uploads, UploadCall{LocalPath: localPath, Key: key})
	if m.Err != nil {
		return "", m.Err
	}
	return "s3://mock/" + key, nil
}

// Compile-time check that MockMirror implements ports.Mirror.
var _ ports.Mirror = (*MockMirror)(nil)
