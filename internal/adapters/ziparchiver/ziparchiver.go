// Package ziparchiver provides the in-process archiver adapter built on
// klauspost/compress.
package ziparchiver

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/jmcdonald/dfircase/internal/ports"
)

const bufferSize = 256 * 1024

// ZipArchiver implements ports.Archiver.
type ZipArchiver struct {
	level int
	open  func(name string) (io.ReadCloser, error)
}

// Option is a functional option for configuring ZipArchiver.
type Option func(*ZipArchiver)

// WithLevel sets the deflate level (flate.BestSpeed .. flate.BestCompression).
func WithLevel(level int) Option {
	return func(a *ZipArchiver) {
		a.level = level
	}
}

// New creates a new ZipArchiver adapter.
func New(opts ...Option) *ZipArchiver {
	a := &ZipArchiver{
		level: flate.DefaultCompression,
		open:  func(name string) (io.ReadCloser, error) { return os.Open(name) },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Create writes a zip archive of sourceDir to destPath.
// The archive is written to a temp file next to destPath and renamed into
// place once complete, so destPath only ever holds a finished archive.
// Any unreadable file aborts the whole archive.
func (a *ZipArchiver) Create(destPath, sourceDir string) (fileCount int, retErr error) {
	info, err := os.Lstat(sourceDir)
	if err != nil {
		return 0, err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return 0, fmt.Errorf("source is a symbolic link: %s", sourceDir)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", sourceDir)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".dfircase-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp archive: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if retErr != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	fileCount, err = a.write(tmp, sourceDir)
	if err != nil {
		return 0, err
	}

	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("closing temp archive: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return 0, fmt.Errorf("renaming temp archive: %w", err)
	}
	return fileCount, nil
}

func (a *ZipArchiver) write(out io.Writer, sourceDir string) (fileCount int, retErr error) {
	bw := bufio.NewWriterSize(out, bufferSize)
	w := zip.NewWriter(bw)
	w.RegisterCompressor(zip.Deflate, func(dst io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(dst, a.level)
	})

	defer func() {
		// Close zip writer first to flush the central directory
		if err := w.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("closing zip writer: %w", err)
		}
		if err := bw.Flush(); err != nil && retErr == nil {
			retErr = fmt.Errorf("flushing archive: %w", err)
		}
	}()

	walkErr := filepath.Walk(sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == sourceDir {
			return nil
		}

		relPath, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return fmt.Errorf("header for %s: %w", relPath, err)
		}
		header.Name = filepath.ToSlash(relPath)

		switch {
		case info.IsDir():
			// Keep empty case folders in the archive
			header.Name += "/"
			header.Method = zip.Store
			_, err := w.CreateHeader(header)
			return err

		case info.Mode()&os.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			header.Method = zip.Store
			entry, err := w.CreateHeader(header)
			if err != nil {
				return err
			}
			_, err = io.WriteString(entry, target)
			return err

		case !info.Mode().IsRegular():
			return nil
		}

		header.Method = zip.Deflate
		entry, err := w.CreateHeader(header)
		if err != nil {
			return err
		}
		if err := a.copyFile(entry, path); err != nil {
			return fmt.Errorf("adding %s: %w", relPath, err)
		}
		fileCount++
		return nil
	})
	if walkErr != nil {
		return 0, walkErr
	}
	return fileCount, nil
}

func (a *ZipArchiver) copyFile(dst io.Writer, path string) error {
	f, err := a.open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	_, err = io.Copy(dst, f)
	return err
}

// Compile-time check that ZipArchiver implements ports.Archiver.
var _ ports.Archiver = (*ZipArchiver)(nil)
