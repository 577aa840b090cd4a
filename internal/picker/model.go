package picker

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmcdonald/dfircase/internal/ports"
)

// Model is a directory browser. The user walks the tree and either
// chooses the directory being shown or cancels.
type Model struct {
	fs       ports.FileSystem
	title    string
	dir      string
	entries  []string
	cursor   int
	width    int
	height   int
	quitting bool

	chosen    string
	cancelled bool

	statusMsg string
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Parent key.Binding
	Choose key.Binding
	Cancel key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter", "right", "l"),
		key.WithHelp("enter", "open"),
	),
	Parent: key.NewBinding(
		key.WithKeys("backspace", "left", "h"),
		key.WithHelp("backspace", "parent"),
	),
	Choose: key.NewBinding(
		key.WithKeys("s", " "),
		key.WithHelp("s", "select this folder"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "q", "ctrl+c"),
		key.WithHelp("esc", "cancel"),
	),
}

// NewModel creates a browser positioned at dir.
func NewModel(fs ports.FileSystem, title, dir string) *Model {
	m := &Model{
		fs:    fs,
		title: title,
		dir:   filepath.Clean(dir),
	}
	m.load()
	return m
}

// Chosen returns the selected directory, or "" when the user cancelled.
func (m *Model) Chosen() string {
	if m.cancelled {
		return ""
	}
	return m.chosen
}

// Dir returns the directory currently shown.
func (m *Model) Dir() string { return m.dir }

// load reads the visible subdirectories of m.dir. Hidden entries are skipped.
func (m *Model) load() {
	m.entries = nil
	m.cursor = 0
	entries, err := m.fs.ReadDir(m.dir)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Cannot read %s: %v", m.dir, err)
		return
	}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		m.entries = append(m.entries, e.Name())
	}
	sort.Strings(m.entries)
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""

		switch {
		case key.Matches(msg, keys.Cancel):
			m.cancelled = true
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Choose):
			m.chosen = m.dir
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			m.moveCursor(-1)

		case key.Matches(msg, keys.Down):
			m.moveCursor(1)

		case key.Matches(msg, keys.Open):
			if len(m.entries) > 0 {
				m.dir = filepath.Join(m.dir, m.entries[m.cursor])
				m.load()
			}

		case key.Matches(msg, keys.Parent):
			m.up()
		}
	}

	return m, nil
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// up moves to the parent directory and highlights the one just left.
func (m *Model) up() {
	parent := filepath.Dir(m.dir)
	if parent == m.dir {
		return
	}
	child := filepath.Base(m.dir)
	m.dir = parent
	m.load()
	for i, name := range m.entries {
		if name == child {
			m.cursor = i
			break
		}
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(" " + m.title + " "))
	b.WriteString("\n\n")
	b.WriteString(pathStyle.Render(m.dir))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat("─", 60)))
	b.WriteString("\n")

	visibleHeight := m.height - 10
	if visibleHeight < 5 {
		visibleHeight = 5
	}

	if len(m.entries) == 0 {
		b.WriteString(dimStyle.Render("  (no subfolders)"))
		b.WriteString("\n")
	}

	start := 0
	if m.cursor >= visibleHeight {
		start = m.cursor - visibleHeight + 1
	}
	for i := start; i < len(m.entries) && i < start+visibleHeight; i++ {
		cursor := "  "
		style := normalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = selectedStyle
		}
		b.WriteString(style.Render(cursor + truncate(m.entries[i], 56)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.statusMsg != "" {
		b.WriteString(errorBadge.Render(m.statusMsg))
	}
	b.WriteString("\n")

	help := "[↑/↓] navigate  [enter] open  [backspace] parent  [s] select this folder  [esc] cancel"
	b.WriteString(helpStyle.Render(help))

	return appStyle.Render(b.String())
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
