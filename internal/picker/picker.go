// Package picker is a terminal folder chooser used to pick the backup
// location.
package picker

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmcdonald/dfircase/internal/ports"
)

// Picker implements ports.FolderPicker with a bubbletea program.
type Picker struct {
	fs   ports.FileSystem
	opts []tea.ProgramOption
}

// Option is a functional option for configuring Picker.
type Option func(*Picker)

// WithIO runs the program on the given streams instead of the terminal.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(p *Picker) {
		p.opts = append(p.opts, tea.WithInput(in), tea.WithOutput(out))
	}
}

// New creates a Picker reading directories through fs.
func New(fs ports.FileSystem, opts ...Option) *Picker {
	p := &Picker{fs: fs}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PickDirectory shows the browser starting at initialDir, or the home
// directory when initialDir is empty or unreadable. It returns "" when
// the user cancels.
func (p *Picker) PickDirectory(title, initialDir string) (string, error) {
	m := NewModel(p.fs, title, p.startDir(initialDir))

	opts := append([]tea.ProgramOption{tea.WithAltScreen()}, p.opts...)
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return "", fmt.Errorf("folder picker: %w", err)
	}
	fm, ok := final.(*Model)
	if !ok {
		return "", nil
	}
	return fm.Chosen(), nil
}

func (p *Picker) startDir(initialDir string) string {
	if initialDir != "" {
		if info, err := p.fs.Stat(initialDir); err == nil && info.IsDir() {
			return initialDir
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// Compile-time check that Picker implements ports.FolderPicker.
var _ ports.FolderPicker = (*Picker)(nil)
