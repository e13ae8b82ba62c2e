package deps

import "testing"

func TestCheckBinariesFindsShell(t *testing.T) {
	statuses := CheckBinaries([]Requirement{
		{Name: "shell", Command: "sh", Description: "POSIX shell"},
	})
	if len(statuses) != 1 {
		t.Fatalf("status count = %d, want 1", len(statuses))
	}
	if !statuses[0].Available {
		t.Errorf("sh should be available: %s", statuses[0].Detail)
	}
}

func TestCheckBinariesMissingTool(t *testing.T) {
	statuses := CheckBinaries([]Requirement{
		{Name: "vpk", Command: "definitely-not-a-real-binary-xyz"},
	})
	if statuses[0].Available {
		t.Error("nonexistent binary reported available")
	}
	if statuses[0].Detail == "" {
		t.Error("missing binary should carry a detail message")
	}
}

func TestCheckBinariesEmptyCommand(t *testing.T) {
	statuses := CheckBinaries([]Requirement{{Name: "archiver"}})
	if statuses[0].Available {
		t.Error("empty command reported available")
	}
	if statuses[0].Detail != "command not configured" {
		t.Errorf("detail = %q", statuses[0].Detail)
	}
}

func TestMissingRequired(t *testing.T) {
	statuses := []Status{
		{Name: "vpk", Available: false},
		{Name: "vtex", Available: false, Optional: true},
		{Name: "sh", Available: true},
	}
	missing := MissingRequired(statuses)
	if len(missing) != 1 || missing[0] != "vpk" {
		t.Errorf("missing = %v, want [vpk]", missing)
	}
}
