package ports

// FolderPicker asks the user to choose a directory.
// Production code uses the picker package; tests use MockPicker.
type FolderPicker interface {
	// PickDirectory returns the chosen directory, or "" when the user
	// cancelled the dialog.
	PickDirectory(title, initialDir string) (string, error)
}
