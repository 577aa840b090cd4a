package cases

import (
	"os/exec"
	"runtime"
)

// Opener shows a folder in the platform file manager.
type Opener func(path string) error

// OpenInFileManager starts the platform file manager on path without
// waiting for it to exit.
func OpenInFileManager(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
