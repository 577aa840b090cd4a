package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Backend lookup strategies.
const (
	StrategyBundled   = "bundled"
	StrategyInstalled = "installed"
)

// BackendConfig selects and locates the external compression backend.
type BackendConfig struct {
	Strategy      string   `yaml:"strategy"`
	BundleDir     string   `yaml:"bundle_dir"`
	AltBundleDir  string   `yaml:"alt_bundle_dir"`
	Executable    string   `yaml:"executable"`
	InstalledPath string   `yaml:"installed_path"`
	Companions    []string `yaml:"companions"`
}

// OffsiteConfig configures the optional S3 copy of finished archives.
type OffsiteConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Bucket    string `yaml:"bucket"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Prefix    string `yaml:"prefix"`
}

type Settings struct {
	LocationFile     string        `yaml:"location_file"`
	Backend          BackendConfig `yaml:"backend"`
	ConfirmDowngrade bool          `yaml:"confirm_downgrade"`
	OpenAfterCreate  bool          `yaml:"open_after_create"`
	Offsite          OffsiteConfig `yaml:"offsite"`
}

// DefaultLocationFile is the name of the backup-location file, relative
// to the working directory.
const DefaultLocationFile = "case_config.txt"

// DefaultSettings returns settings for the given backend strategy.
func DefaultSettings(strategy string) *Settings {
	if strategy != StrategyBundled {
		strategy = StrategyInstalled
	}
	return &Settings{
		LocationFile: DefaultLocationFile,
		Backend: BackendConfig{
			Strategy:      strategy,
			Executable:    DefaultExecutable(),
			InstalledPath: DefaultInstalledPath(),
			Companions:    DefaultCompanions(),
		},
		OpenAfterCreate: true,
	}
}

// DefaultExecutable is the backend executable name for this platform.
func DefaultExecutable() string {
	if runtime.GOOS == "windows" {
		return "7z.exe"
	}
	return "7z"
}

// DefaultInstalledPath is the well-known install location of 7-Zip.
func DefaultInstalledPath() string {
	if runtime.GOOS == "windows" {
		return `C:\Program Files\7-Zip\7z.exe`
	}
	return "/usr/bin/7z"
}

// DefaultCompanions lists the libraries 7-Zip needs next to its executable.
func DefaultCompanions() []string {
	if runtime.GOOS == "windows" {
		return []string{"7z.dll"}
	}
	return nil
}

func SettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".dfircase", "settings.yaml")
}

// LoadSettings reads path, or SettingsPath() when path is empty.
// A missing file yields the defaults for strategy.
func LoadSettings(path, strategy string) (*Settings, error) {
	cfg := DefaultSettings(strategy)
	if path == "" {
		path = SettingsPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (s *Settings) Validate() error {
	switch s.Backend.Strategy {
	case StrategyBundled, StrategyInstalled:
	default:
		return fmt.Errorf("unknown backend strategy %q (want %q or %q)",
			s.Backend.Strategy, StrategyBundled, StrategyInstalled)
	}
	if s.LocationFile == "" {
		return fmt.Errorf("location_file must not be empty")
	}
	if s.Offsite.Enabled && s.Offsite.Bucket == "" {
		return fmt.Errorf("offsite.bucket is required when offsite is enabled")
	}
	return nil
}

// Save writes the settings to path, or SettingsPath() when path is empty.
func (s *Settings) Save(path string) error {
	if path == "" {
		path = SettingsPath()
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path // Return unexpanded if home unavailable
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
