package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmcdonald/dfircase/internal/adapters/osfs"
)

func TestDefaultSettings(t *testing.T) {
	cfg := DefaultSettings(StrategyInstalled)

	if cfg.LocationFile != DefaultLocationFile {
		t.Errorf("LocationFile = %q, expected %q", cfg.LocationFile, DefaultLocationFile)
	}
	if cfg.Backend.Strategy != StrategyInstalled {
		t.Errorf("Strategy = %q, expected %q", cfg.Backend.Strategy, StrategyInstalled)
	}
	if cfg.Backend.InstalledPath != DefaultInstalledPath() {
		t.Errorf("InstalledPath = %q, expected %q", cfg.Backend.InstalledPath, DefaultInstalledPath())
	}
	if cfg.ConfirmDowngrade {
		t.Error("ConfirmDowngrade should default to false")
	}
	if !cfg.OpenAfterCreate {
		t.Error("OpenAfterCreate should default to true")
	}
	if cfg.Offsite.Enabled {
		t.Error("Offsite should be disabled by default")
	}
}

func TestDefaultSettingsStrategy(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{StrategyBundled, StrategyBundled},
		{StrategyInstalled, StrategyInstalled},
		{"", StrategyInstalled},
		{"bogus", StrategyInstalled},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cfg := DefaultSettings(tt.input)
			if cfg.Backend.Strategy != tt.expected {
				t.Errorf("DefaultSettings(%q).Backend.Strategy = %q, expected %q", tt.input, cfg.Backend.Strategy, tt.expected)
			}
		})
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg, err := LoadSettings(path, StrategyBundled)
	if err != nil {
		t.Fatalf("LoadSettings failed for missing file: %v", err)
	}
	if cfg.Backend.Strategy != StrategyBundled {
		t.Errorf("Strategy = %q, expected build default %q", cfg.Backend.Strategy, StrategyBundled)
	}
}

func TestLoadSettingsDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	dir := filepath.Join(home, ".dfircase")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create settings dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte("confirm_downgrade: true\n"), 0644); err != nil {
		t.Fatalf("Failed to write settings: %v", err)
	}

	cfg, err := LoadSettings("", StrategyInstalled)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if !cfg.ConfirmDowngrade {
		t.Error("ConfirmDowngrade should be read from ~/.dfircase/settings.yaml")
	}
}

func TestLoadSettingsValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `
location_file: backup_location.txt
backend:
  strategy: bundled
  bundle_dir: /opt/dfircase/bin
  executable: 7zz
  companions:
    - lib7z.so
confirm_downgrade: true
open_after_create: false
offsite:
  enabled: true
  bucket: evidence-vault
  region: eu-west-1
  prefix: cases/
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write settings: %v", err)
	}

	cfg, err := LoadSettings(path, StrategyInstalled)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	if cfg.LocationFile != "backup_location.txt" {
		t.Errorf("LocationFile = %q", cfg.LocationFile)
	}
	if cfg.Backend.Strategy != StrategyBundled {
		t.Errorf("Strategy = %q, expected %q", cfg.Backend.Strategy, StrategyBundled)
	}
	if cfg.Backend.BundleDir != "/opt/dfircase/bin" {
		t.Errorf("BundleDir = %q", cfg.Backend.BundleDir)
	}
	if cfg.Backend.Executable != "7zz" {
		t.Errorf("Executable = %q", cfg.Backend.Executable)
	}
	if len(cfg.Backend.Companions) != 1 || cfg.Backend.Companions[0] != "lib7z.so" {
		t.Errorf("Companions = %v", cfg.Backend.Companions)
	}
	// Unset keys keep their defaults
	if cfg.Backend.InstalledPath != DefaultInstalledPath() {
		t.Errorf("InstalledPath = %q, expected default", cfg.Backend.InstalledPath)
	}
	if !cfg.ConfirmDowngrade || cfg.OpenAfterCreate {
		t.Errorf("ConfirmDowngrade = %v, OpenAfterCreate = %v", cfg.ConfirmDowngrade, cfg.OpenAfterCreate)
	}
	if !cfg.Offsite.Enabled || cfg.Offsite.Bucket != "evidence-vault" || cfg.Offsite.Prefix != "cases/" {
		t.Errorf("Offsite = %+v", cfg.Offsite)
	}
}

func TestLoadSettingsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"bad yaml", "backend: [unclosed", "parsing"},
		{"unknown strategy", "backend:\n  strategy: portable\n", "unknown backend strategy"},
		{"empty location file", "location_file: \"\"\n", "location_file"},
		{"offsite without bucket", "offsite:\n  enabled: true\n", "offsite.bucket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write settings: %v", err)
			}

			_, err := LoadSettings(path, StrategyInstalled)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error = %q, expected it to contain %q", err.Error(), tt.errPart)
			}
		})
	}
}

func TestSaveAndLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")

	cfg := DefaultSettings(StrategyBundled)
	cfg.ConfirmDowngrade = true
	cfg.Backend.AltBundleDir = "/srv/tools"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadSettings(path, StrategyInstalled)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if loaded.Backend.Strategy != StrategyBundled {
		t.Errorf("Strategy = %q, expected saved value %q", loaded.Backend.Strategy, StrategyBundled)
	}
	if !loaded.ConfirmDowngrade {
		t.Error("ConfirmDowngrade not persisted")
	}
	if loaded.Backend.AltBundleDir != "/srv/tools" {
		t.Errorf("AltBundleDir = %q", loaded.Backend.AltBundleDir)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/cases", filepath.Join(home, "cases")},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ExpandPath(tt.input); got != tt.expected {
				t.Errorf("ExpandPath(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLocationStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	backups := filepath.Join(dir, "backups")
	if err := os.MkdirAll(backups, 0755); err != nil {
		t.Fatalf("Failed to create backups dir: %v", err)
	}

	store := NewLocationStore(osfs.New(), filepath.Join(dir, DefaultLocationFile))
	if _, ok := store.Read(); ok {
		t.Fatal("Read should report unset before any Write")
	}

	if err := store.Write("  " + backups + "\n"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, ok := store.Read()
	if !ok {
		t.Fatal("Read should report set after Write")
	}
	if got != backups {
		t.Errorf("Read = %q, expected %q", got, backups)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != backups {
		t.Errorf("file content = %q, expected a single trimmed line", data)
	}
}

func TestLocationStoreWriteRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	backups := filepath.Join(dir, "backups")
	if err := os.MkdirAll(backups, 0755); err != nil {
		t.Fatalf("Failed to create backups dir: %v", err)
	}
	file := filepath.Join(dir, "not-a-dir.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	tests := []struct {
		name     string
		location string
	}{
		{"empty", "  "},
		{"missing directory", filepath.Join(backups, "missing")},
		{"regular file", file},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewLocationStore(osfs.New(), filepath.Join(t.TempDir(), DefaultLocationFile))
			if err := store.Write(backups); err != nil {
				t.Fatalf("Write failed: %v", err)
			}

			if err := store.Write(tt.location); !errors.Is(err, ErrNotDirectory) {
				t.Fatalf("Write(%q) error = %v, expected ErrNotDirectory", tt.location, err)
			}
			if got, ok := store.Read(); !ok || got != backups {
				t.Errorf("Read = %q, %v; expected previous location %q kept", got, ok, backups)
			}
		})
	}
}

func TestLocationStoreWriteMakesAbsolute(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "backups"), 0755); err != nil {
		t.Fatalf("Failed to create backups dir: %v", err)
	}
	chdirForTest(t, dir)

	store := NewLocationStore(osfs.New(), filepath.Join(dir, DefaultLocationFile))
	if err := store.Write("backups"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !filepath.IsAbs(string(data)) || filepath.Base(string(data)) != "backups" {
		t.Errorf("stored = %q, expected an absolute path to backups", data)
	}
}

func TestLocationStoreInvalidContent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"whitespace", "   \n"},
		{"missing directory", filepath.Join(dir, "gone")},
		{"regular file", file},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultLocationFile)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write location file: %v", err)
			}
			store := NewLocationStore(osfs.New(), path)
			if loc, ok := store.Read(); ok {
				t.Errorf("Read = %q, true; expected unset", loc)
			}
		})
	}
}

// chdirForTest changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatal(err)
		}
	})
}
