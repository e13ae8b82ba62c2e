package namecache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestPutAndGet(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.json")
	cache := New(cachePath, nil)

	if err := cache.Put("3129837", "de_bank"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	name, ok := cache.Get("3129837")
	if !ok {
		t.Fatal("Get failed to find stored entry")
	}
	if name != "de_bank" {
		t.Errorf("name = %q, want %q", name, "de_bank")
	}
}

func TestGetNotFound(t *testing.T) {
	cache := New(filepath.Join(t.TempDir(), "cache.json"), nil)
	if _, ok := cache.Get("999"); ok {
		t.Error("Get should return false for unknown ID")
	}
	if _, ok := cache.Get("  "); ok {
		t.Error("Get should return false for blank ID")
	}
}

func TestPutValidation(t *testing.T) {
	cache := New(filepath.Join(t.TempDir(), "cache.json"), nil)
	if err := cache.Put("", "de_bank"); err == nil {
		t.Error("empty external ID should be rejected")
	}
	if err := cache.Put("123", " "); err == nil {
		t.Error("blank internal name should be rejected")
	}
}

func TestPersistsAcrossInstances(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.json")

	first := New(cachePath, nil)
	if err := first.Put("101", "cs_office"); err != nil {
		t.Fatal(err)
	}

	second := New(cachePath, nil)
	name, ok := second.Get("101")
	if !ok || name != "cs_office" {
		t.Errorf("reloaded cache returned (%q, %v)", name, ok)
	}
}

func TestCorruptFileDegradesToEmpty(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(cachePath, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	cache := New(cachePath, nil)
	if cache.Len() != 0 {
		t.Errorf("corrupt cache should start empty, got %d entries", cache.Len())
	}

	// The cache must stay writable after a corrupt load.
	if err := cache.Put("7", "aim_map"); err != nil {
		t.Fatalf("Put after corrupt load failed: %v", err)
	}
}

func TestPutPreservesConcurrentWrites(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.json")

	writerA := New(cachePath, nil)
	writerB := New(cachePath, nil)

	if err := writerA.Put("1", "de_dust"); err != nil {
		t.Fatal(err)
	}
	// writerB was constructed before writerA's entry existed; its Put must
	// still preserve that entry by reloading under the lock.
	if err := writerB.Put("2", "de_aztec"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(cachePath)
	if err != nil {
		t.Fatal(err)
	}
	var onDisk map[string]string
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("cache file is not valid JSON: %v", err)
	}
	if onDisk["1"] != "de_dust" || onDisk["2"] != "de_aztec" {
		t.Errorf("on-disk entries = %v", onDisk)
	}
}

func TestEmptyPathIsNoop(t *testing.T) {
	cache := New("", nil)
	if err := cache.Put("1", "de_dust"); err != nil {
		t.Errorf("Put on pathless cache should no-op, got %v", err)
	}
	if _, ok := cache.Get("1"); ok {
		t.Error("pathless cache should never report hits")
	}
}

func TestClear(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.json")
	cache := New(cachePath, nil)
	if err := cache.Put("1", "de_dust"); err != nil {
		t.Fatal(err)
	}
	if err := cache.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if cache.Len() != 0 {
		t.Error("cache should be empty after Clear")
	}
	if _, ok := New(cachePath, nil).Get("1"); ok {
		t.Error("cleared entry survived on disk")
	}
}
