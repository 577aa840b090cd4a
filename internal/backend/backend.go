// Package backend resolves the external compression backend. Two
// interchangeable strategies exist: a bundled copy shipped alongside the
// program, and a system-wide installation.
package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jmcdonald/dfircase/internal/config"
	"github.com/jmcdonald/dfircase/internal/ports"
)

// BundledLocator looks for the executable and its companions together in
// one of several bundle directories, in order.
type BundledLocator struct {
	fs         ports.FileSystem
	dirs       []string
	executable string
	companions []string
	log        *zap.Logger
}

// NewBundled creates a locator searching dirs for executable and companions.
func NewBundled(fs ports.FileSystem, dirs []string, executable string, companions []string, log *zap.Logger) *BundledLocator {
	return &BundledLocator{
		fs:         fs,
		dirs:       dirs,
		executable: executable,
		companions: companions,
		log:        log,
	}
}

// Strategy implements ports.BackendLocator.
func (l *BundledLocator) Strategy() string { return config.StrategyBundled }

// Resolve implements ports.BackendLocator.
func (l *BundledLocator) Resolve() (ports.BackendHandle, error) {
	var missing []string
	for _, dir := range l.dirs {
		if dir == "" {
			continue
		}
		h, absent := checkDir(l.fs, dir, l.executable, l.companions)
		if len(absent) == 0 {
			l.log.Debug("backend resolved", zap.String("strategy", l.Strategy()), zap.String("executable", h.Executable))
			return h, nil
		}
		l.log.Debug("backend not in bundle dir", zap.String("dir", dir), zap.Strings("missing", absent))
		missing = append(missing, absent...)
	}
	if len(missing) == 0 {
		return ports.BackendHandle{}, fmt.Errorf("%w: no bundle directory configured", ports.ErrBackendNotFound)
	}
	return ports.BackendHandle{}, fmt.Errorf("%w: missing %s", ports.ErrBackendNotFound, strings.Join(missing, ", "))
}

// InstalledLocator expects the backend at a fixed system path.
type InstalledLocator struct {
	fs         ports.FileSystem
	path       string
	companions []string
	log        *zap.Logger
}

// NewInstalled creates a locator for the executable at path. Companions
// are looked up in the same directory.
func NewInstalled(fs ports.FileSystem, path string, companions []string, log *zap.Logger) *InstalledLocator {
	return &InstalledLocator{fs: fs, path: path, companions: companions, log: log}
}

// Strategy implements ports.BackendLocator.
func (l *InstalledLocator) Strategy() string { return config.StrategyInstalled }

// Resolve implements ports.BackendLocator.
func (l *InstalledLocator) Resolve() (ports.BackendHandle, error) {
	h, missing := checkDir(l.fs, filepath.Dir(l.path), filepath.Base(l.path), l.companions)
	if len(missing) > 0 {
		l.log.Debug("installed backend incomplete", zap.Strings("missing", missing))
		return ports.BackendHandle{}, fmt.Errorf("%w: missing %s", ports.ErrBackendNotFound, strings.Join(missing, ", "))
	}
	l.log.Debug("backend resolved", zap.String("strategy", l.Strategy()), zap.String("executable", h.Executable))
	return h, nil
}

// checkDir returns the handle for dir and the paths that do not exist.
func checkDir(fs ports.FileSystem, dir, executable string, companions []string) (ports.BackendHandle, []string) {
	h := ports.BackendHandle{Executable: filepath.Join(dir, executable)}
	var missing []string
	if !isFile(fs, h.Executable) {
		missing = append(missing, h.Executable)
	}
	for _, c := range companions {
		p := filepath.Join(dir, c)
		if !isFile(fs, p) {
			missing = append(missing, p)
		}
		h.Companions = append(h.Companions, p)
	}
	return h, missing
}

func isFile(fs ports.FileSystem, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && !info.IsDir()
}

// New builds the locator selected by cfg.Strategy. Empty bundle
// directories default to the directory of the running executable and
// then workDir.
func New(cfg config.BackendConfig, fs ports.FileSystem, workDir string, log *zap.Logger) (ports.BackendLocator, error) {
	switch cfg.Strategy {
	case config.StrategyBundled:
		bundleDir := config.ExpandPath(cfg.BundleDir)
		if bundleDir == "" {
			if exe, err := os.Executable(); err == nil {
				bundleDir = filepath.Dir(exe)
			}
		}
		altDir := config.ExpandPath(cfg.AltBundleDir)
		if altDir == "" {
			altDir = workDir
		}
		executable := cfg.Executable
		if executable == "" {
			executable = config.DefaultExecutable()
		}
		return NewBundled(fs, dedupe(bundleDir, altDir), executable, cfg.Companions, log), nil

	case config.StrategyInstalled:
		path := config.ExpandPath(cfg.InstalledPath)
		if path == "" {
			path = config.DefaultInstalledPath()
		}
		return NewInstalled(fs, path, cfg.Companions, log), nil
	}
	return nil, fmt.Errorf("unknown backend strategy %q", cfg.Strategy)
}

func dedupe(dirs ...string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range dirs {
		if d == "" || seen[filepath.Clean(d)] {
			continue
		}
		seen[filepath.Clean(d)] = true
		out = append(out, d)
	}
	return out
}

// Compile-time checks that both strategies implement ports.BackendLocator.
var (
	_ ports.BackendLocator = (*BundledLocator)(nil)
	_ ports.BackendLocator = (*InstalledLocator)(nil)
)
