package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.CachePath, err = expandPath(c.Paths.CachePath); err != nil {
		return fmt.Errorf("paths.cache_path: %w", err)
	}
	if c.Assemble.BasePackage, err = expandPath(c.Assemble.BasePackage); err != nil {
		return fmt.Errorf("assemble.base_package: %w", err)
	}
	if c.Install.GameDir, err = expandPath(c.Install.GameDir); err != nil {
		return fmt.Errorf("install.game_dir: %w", err)
	}

	c.Workshop.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.Workshop.APIBaseURL), "/")
	if c.Workshop.RequestTimeout <= 0 {
		c.Workshop.RequestTimeout = defaultRequestTimeout
	}
	if c.Workshop.DownloadTimeout <= 0 {
		c.Workshop.DownloadTimeout = defaultDownloadTimeout
	}

	c.Package.NamePrefix = strings.TrimSpace(c.Package.NamePrefix)
	c.Package.NameSuffix = strings.TrimSpace(c.Package.NameSuffix)
	c.Package.Extension = strings.TrimPrefix(strings.TrimSpace(c.Package.Extension), ".")

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return filepath.Abs(path)
}
