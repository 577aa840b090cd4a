package ports

// Archiver abstracts the in-process zip writer used when no password is
// requested or the compression backend cannot be used.
// Production code uses ZipArchiver adapter; tests use MockArchiver.
type Archiver interface {
	// Create writes a standard zip archive of everything below sourceDir
	// to destPath. Entry names are relative to sourceDir.
	// Returns the number of files archived.
	Create(destPath, sourceDir string) (fileCount int, err error)
}
