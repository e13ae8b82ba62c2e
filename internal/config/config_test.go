package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, _, err := Load(filepath.Join(dir, "absent.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Package.NamePrefix != "mappack" {
		t.Errorf("name_prefix = %q, want default", cfg.Package.NamePrefix)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[package]
name_prefix = "warpack"
extension = "vpk"

[resolver]
prefix_priority = ["de_", "aim_"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Package.NamePrefix != "warpack" {
		t.Errorf("name_prefix = %q", cfg.Package.NamePrefix)
	}
	if len(cfg.Resolver.PrefixPriority) != 2 || cfg.Resolver.PrefixPriority[0] != "de_" {
		t.Errorf("prefix_priority = %v", cfg.Resolver.PrefixPriority)
	}
	// Untouched sections keep defaults.
	if cfg.Install.ConfigFile != "gameinfo.txt" {
		t.Errorf("config_file = %q, want default", cfg.Install.ConfigFile)
	}
}

func TestLoadRejectsInvalidPrefix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[package]
name_prefix = "bad_prefix"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(path); err == nil {
		t.Fatal("expected validation error for underscore in name_prefix")
	}
}

func TestPackageFileName(t *testing.T) {
	cfg := Default()
	if got := cfg.PackageFileName("3129837"); got != "mappack_3129837.vpk" {
		t.Errorf("PackageFileName = %q", got)
	}

	cfg.Package.NameSuffix = "dir"
	if got := cfg.PackageFileName("3129837"); got != "mappack_3129837_dir.vpk" {
		t.Errorf("PackageFileName with suffix = %q", got)
	}
}

func TestSampleConfigParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}
	if _, _, err := Load(path); err != nil {
		t.Fatalf("embedded sample should load cleanly: %v", err)
	}
	if err := WriteSample(path); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second WriteSample should refuse to overwrite, got %v", err)
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := expandPath("~/x")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "x") {
		t.Errorf("expandPath = %q", got)
	}
}
