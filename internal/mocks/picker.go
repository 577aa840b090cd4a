package mocks

import "github.com/jmcdonald/dfircase/internal/ports"

// MockPicker implements ports.FolderPicker for testing.
type MockPicker struct {
	// Results are returned in order; "" simulates a cancelled dialog.
	Results []string
	Err     error
	Calls   []PickCall
}

// PickCall records parameters of a PickDirectory call.
type PickCall struct {
	Title      string
	InitialDir string
}

// NewMockPicker creates a picker returning results in order.
func NewMockPicker(results ...string) *MockPicker {
	return &MockPicker{Results: results}
}

// PickDirectory pops the next result. It returns "" once results run out.
func (m *MockPicker) PickDirectory(title, initialDir string) (string, error) {
	m.Calls = append(m.Calls, PickCall{Title: title, InitialDir: initialDir})
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Results) == 0 {
		return "", nil
	}
	next := m.Results[0]
	m.Results = m.Results[1:]
	return next, nil
}

// Compile-time check that MockPicker implements ports.FolderPicker.
var _ ports.FolderPicker = (*MockPicker)(nil)
