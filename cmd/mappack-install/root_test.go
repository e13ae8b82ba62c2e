package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mappack/internal/testsupport"
)

const gameinfoFixture = "\"GameInfo\"\r\n" +
	"{\r\n" +
	"\t\t\tGame\t\t\t\t|gameinfo_path|.\r\n" +
	"}\r\n"

type installEnv struct {
	configPath string
	gameDir    string
	packageDir string
}

func setupInstallEnv(t *testing.T) *installEnv {
	t.Helper()
	base := t.TempDir()

	gameDir := filepath.Join(base, "game")
	if err := os.MkdirAll(gameDir, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := testsupport.NewConfig(t, testsupport.WithGameDir(gameDir))

	if err := os.WriteFile(filepath.Join(gameDir, cfg.Install.ConfigFile), []byte(gameinfoFixture), 0o644); err != nil {
		t.Fatal(err)
	}

	packageDir := filepath.Join(base, "dist")
	if err := os.MkdirAll(packageDir, 0o755); err != nil {
		t.Fatal(err)
	}
	pkg := filepath.Join(packageDir, cfg.PackageFileName("321"))
	if err := os.WriteFile(pkg, []byte("archive"), 0o644); err != nil {
		t.Fatal(err)
	}

	return &installEnv{
		configPath: testsupport.WriteConfig(t, cfg),
		gameDir:    gameDir,
		packageDir: packageDir,
	}
}

func runInstallCLI(t *testing.T, env *installEnv, extra ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	args := []string{"--config", env.configPath, "--dir", env.packageDir}
	cmd.SetArgs(append(args, extra...))
	err := cmd.Execute()
	return stdout.String(), err
}

func TestInstallThenCleanRoundTrip(t *testing.T) {
	env := setupInstallEnv(t)
	gameinfoPath := filepath.Join(env.gameDir, "gameinfo.txt")

	out, err := runInstallCLI(t, env)
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	if !strings.Contains(out, "installed") {
		t.Errorf("missing install status:\n%s", out)
	}

	patched, err := os.ReadFile(gameinfoPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(patched), "custom/mappack_321.vpk") {
		t.Errorf("config not patched:\n%q", patched)
	}
	if _, err := os.Stat(filepath.Join(env.gameDir, "custom", "mappack_321.vpk")); err != nil {
		t.Errorf("payload not copied: %v", err)
	}

	out, err = runInstallCLI(t, env, "--clean")
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if !strings.Contains(out, "restored from backup") {
		t.Errorf("missing restore status:\n%s", out)
	}

	restored, err := os.ReadFile(gameinfoPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(restored) != gameinfoFixture {
		t.Errorf("config not restored byte-for-byte:\n%q", restored)
	}
	if _, err := os.Stat(filepath.Join(env.gameDir, "custom", "mappack_321.vpk")); !os.IsNotExist(err) {
		t.Error("payload file should be removed")
	}
}

func TestInstallSecondRunIsSkipped(t *testing.T) {
	env := setupInstallEnv(t)

	if _, err := runInstallCLI(t, env); err != nil {
		t.Fatalf("first install: %v", err)
	}
	out, err := runInstallCLI(t, env)
	if err != nil {
		t.Fatalf("second install: %v", err)
	}
	if !strings.Contains(out, "already installed") {
		t.Errorf("expected skip status:\n%s", out)
	}
}

func TestInstallFailsWithoutGameDir(t *testing.T) {
	env := setupInstallEnv(t)
	env.configPath = testsupport.WriteConfig(t, testsupport.NewConfig(t))

	if _, err := runInstallCLI(t, env); err == nil {
		t.Fatal("expected error when game dir is not configured")
	}
}

func TestInstallFailsWhenNoPackages(t *testing.T) {
	env := setupInstallEnv(t)
	empty := t.TempDir()

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs([]string{"--config", env.configPath, "--dir", empty})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error when no package files exist")
	}
}
