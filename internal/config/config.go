package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration for the build tool.
type Paths struct {
	StagingDir string `toml:"staging_dir"`
	OutputDir  string `toml:"output_dir"`
	CachePath  string `toml:"cache_path"`
}

// Workshop contains configuration for the asset platform API and CDN.
type Workshop struct {
	APIBaseURL      string `toml:"api_base_url"`
	APIKey          string `toml:"api_key"`
	RequestTimeout  int    `toml:"request_timeout"`
	DownloadTimeout int    `toml:"download_timeout"`
}

// Resolver contains the deterministic name-selection policy.
type Resolver struct {
	PrefixPriority   []string `toml:"prefix_priority"`
	ExcludedSuffixes []string `toml:"excluded_suffixes"`
}

// Package contains the naming convention for built package files. The
// reference line written into the shared config is derived from these
// fields, so they must match between build and install runs.
type Package struct {
	NamePrefix string `toml:"name_prefix"`
	NameSuffix string `toml:"name_suffix"`
	Extension  string `toml:"extension"`
}

// Assemble contains configuration for package assembly.
type Assemble struct {
	BasePackage   string   `toml:"base_package"`
	Locales       []string `toml:"locales"`
	ServerListing bool     `toml:"server_listing"`
	OfficialMaps  []string `toml:"official_maps"`
}

// Install contains configuration for the client-side install tool.
type Install struct {
	GameDir    string `toml:"game_dir"`
	ConfigFile string `toml:"config_file"`
	PayloadDir string `toml:"payload_dir"`
}

// Tools names the external binaries the pipeline shells out to.
type Tools struct {
	VPKBinary  string `toml:"vpk_binary"`
	VTexBinary string `toml:"vtex_binary"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values. It is constructed once at
// startup and passed explicitly into each component; there is no process-wide
// mutable configuration.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Workshop Workshop `toml:"workshop"`
	Resolver Resolver `toml:"resolver"`
	Package  Package  `toml:"package"`
	Assemble Assemble `toml:"assemble"`
	Install  Install  `toml:"install"`
	Tools    Tools    `toml:"tools"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mappack/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, resolvedPath, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("mappack.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the build tool writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.OutputDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// PackageFileName returns the deterministic package file name for an
// external ID: <prefix>_<externalID>[_<suffix>].<ext>. Byte-for-byte
// reproducibility is required: the install tool uses the same name both to
// detect "already installed" and to generate new reference lines.
func (c *Config) PackageFileName(externalID string) string {
	name := c.Package.NamePrefix + "_" + externalID
	if c.Package.NameSuffix != "" {
		name += "_" + c.Package.NameSuffix
	}
	return name + "." + c.Package.Extension
}
