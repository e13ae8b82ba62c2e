package markerdoc

import (
	"errors"
	"regexp"
	"testing"

	"mappack/internal/services"
)

func TestParseRenderPreservesCRLF(t *testing.T) {
	content := "first\r\nsecond\r\n"
	doc := Parse(content, CRLF)
	if doc.Len() != 2 {
		t.Fatalf("line count = %d, want 2", doc.Len())
	}
	if got := doc.Render(); got != content {
		t.Errorf("Render = %q, want %q", got, content)
	}
}

func TestParseNormalizesForeignEnding(t *testing.T) {
	// LF input into a CRLF dialect must come out CRLF.
	doc := Parse("a\nb\n", CRLF)
	if got := doc.Render(); got != "a\r\nb\r\n" {
		t.Errorf("Render = %q", got)
	}
}

func TestParseNoTrailingTerminator(t *testing.T) {
	doc := Parse("a\nb", LF)
	if got := doc.Render(); got != "a\nb" {
		t.Errorf("Render = %q, want no trailing terminator", got)
	}
}

func TestInsertBeforeExactMarker(t *testing.T) {
	doc := Parse("one\nMARKER\ntwo\n", LF)
	if err := doc.InsertBefore(Exact("MARKER"), []string{"inserted"}); err != nil {
		t.Fatalf("InsertBefore failed: %v", err)
	}
	want := "one\ninserted\nMARKER\ntwo\n"
	if got := doc.Render(); got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestInsertAfterPatternMarker(t *testing.T) {
	doc := Parse("alpha\n// boundary\nomega\n", LF)
	marker := Pattern(regexp.MustCompile(`^// boundary$`))
	if err := doc.InsertAfter(marker, []string{"x", "y"}); err != nil {
		t.Fatalf("InsertAfter failed: %v", err)
	}
	want := "alpha\n// boundary\nx\ny\nomega\n"
	if got := doc.Render(); got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestMissingMarkerIsHardFailure(t *testing.T) {
	doc := Parse("one\ntwo\n", LF)
	err := doc.InsertBefore(Exact("ABSENT"), []string{"x"})
	if err == nil {
		t.Fatal("missing marker must fail, silent no-ops are forbidden")
	}
	if !errors.Is(err, services.ErrMarkerNotFound) {
		t.Errorf("error should be ErrMarkerNotFound, got %v", err)
	}
}

func TestDuplicateMarkerIsError(t *testing.T) {
	doc := Parse("M\nmid\nM\n", LF)
	if err := doc.InsertBefore(Exact("M"), []string{"x"}); err == nil {
		t.Fatal("ambiguous marker should fail without FirstMatch")
	}
}

func TestDuplicateMarkerFirstMatchOptIn(t *testing.T) {
	doc := Parse("M\nmid\nM\n", LF)
	if err := doc.InsertBefore(Exact("M").FirstMatch(), []string{"x"}); err != nil {
		t.Fatalf("FirstMatch insert failed: %v", err)
	}
	want := "x\nM\nmid\nM\n"
	if got := doc.Render(); got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRemoveMatchingReportsRemovedLines(t *testing.T) {
	doc := Parse("keep\nmappack_1.vpk\nkeep2\nmappack_2.vpk\n", LF)
	removed := doc.RemoveMatching(regexp.MustCompile(`^mappack_\d+\.vpk$`))
	if len(removed) != 2 {
		t.Fatalf("removed %d lines, want 2", len(removed))
	}
	if removed[0] != "mappack_1.vpk" || removed[1] != "mappack_2.vpk" {
		t.Errorf("removed = %v", removed)
	}
	if got := doc.Render(); got != "keep\nkeep2\n" {
		t.Errorf("Render = %q", got)
	}
}

func TestRemoveMatchingIdempotent(t *testing.T) {
	doc := Parse("keep\nmappack_1.vpk\n", LF)
	pattern := regexp.MustCompile(`^mappack_\d+\.vpk$`)

	first := doc.RemoveMatching(pattern)
	second := doc.RemoveMatching(pattern)
	if len(first) != 1 {
		t.Errorf("first removal count = %d, want 1", len(first))
	}
	if len(second) != 0 {
		t.Errorf("second removal must be a no-op, removed %d", len(second))
	}
}

func TestInsertThenRemoveRoundTrip(t *testing.T) {
	original := "head\r\n// end of custom maps\r\ntail\r\n"
	doc := Parse(original, CRLF)

	inserted := []string{"\t\"de_bank\"\t\t\"\"", "\t\"aim_map\"\t\t\"\""}
	if err := doc.InsertBefore(Exact("// end of custom maps"), inserted); err != nil {
		t.Fatalf("InsertBefore failed: %v", err)
	}
	doc.RemoveMatching(regexp.MustCompile(`^\t"[a-z_]+"\t\t""$`))

	if got := doc.Render(); got != original {
		t.Errorf("round trip failed:\n got %q\nwant %q", got, original)
	}
}

func TestContains(t *testing.T) {
	doc := Parse("a\nb\n", LF)
	if !doc.Contains("a") {
		t.Error("Contains should find exact line")
	}
	if doc.Contains("A") {
		t.Error("Contains must be byte-exact")
	}
}

func TestFindIndexOrdering(t *testing.T) {
	doc := Parse("\"maps\"\n{\nentry\n// end of custom maps\n}\n", LF)
	start, err := doc.FindIndex(Exact(`"maps"`))
	if err != nil {
		t.Fatal(err)
	}
	end, err := doc.FindIndex(Exact("// end of custom maps"))
	if err != nil {
		t.Fatal(err)
	}
	if start >= end {
		t.Errorf("block start %d should precede boundary %d", start, end)
	}
}
