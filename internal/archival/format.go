package archival

import "fmt"

// FormatSize formats bytes as human-readable
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// Summary describes the archive size and, when the archiver counted
// them, the number of files stored.
func (o *Outcome) Summary() string {
	size := FormatSize(o.SizeBytes)
	switch {
	case o.FileCount == 1:
		return size + ", 1 file"
	case o.FileCount > 1:
		return fmt.Sprintf("%s, %d files", size, o.FileCount)
	}
	return size
}
