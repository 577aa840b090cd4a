//go:build windows

package preflight

import "os"

// Windows ACLs are not reflected in mode bits, so probe with a temp file.
func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".dfircase-probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
