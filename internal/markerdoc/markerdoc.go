package markerdoc

import (
	"fmt"
	"regexp"
	"strings"

	"mappack/internal/services"
)

// LineEnding is the terminator a document dialect requires. The game
// engine's text formats reject the wrong terminator, so rendering always
// re-joins with the dialect's ending regardless of what the input carried.
type LineEnding string

const (
	CRLF LineEnding = "\r\n"
	LF   LineEnding = "\n"
)

// Document is an ordered sequence of lines plus the dialect line ending.
type Document struct {
	lines              []string
	ending             LineEnding
	trailingTerminator bool
}

// Parse splits content into lines, tolerating either terminator on input.
// Rendering uses the given dialect ending exclusively.
func Parse(content string, ending LineEnding) *Document {
	doc := &Document{ending: ending}
	if content == "" {
		return doc
	}

	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	doc.trailingTerminator = strings.HasSuffix(normalized, "\n")
	if doc.trailingTerminator {
		normalized = strings.TrimSuffix(normalized, "\n")
	}
	doc.lines = strings.Split(normalized, "\n")
	return doc
}

// Render joins the lines with the dialect terminator.
func (d *Document) Render() string {
	out := strings.Join(d.lines, string(d.ending))
	if d.trailingTerminator && len(d.lines) > 0 {
		out += string(d.ending)
	}
	return out
}

// Lines returns a copy of the document's lines.
func (d *Document) Lines() []string {
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// Len returns the number of lines.
func (d *Document) Len() int { return len(d.lines) }

// Contains reports whether any line equals the given literal exactly.
func (d *Document) Contains(literal string) bool {
	for _, line := range d.lines {
		if line == literal {
			return true
		}
	}
	return false
}

// Marker anchors a patch operation to a single line. It matches either an
// exact literal line or a line pattern. Zero matches is a hard failure.
// Multiple matches are also an error unless the caller deliberately opts
// into first-occurrence semantics for dialects known to repeat the literal.
type Marker struct {
	literal    string
	pattern    *regexp.Regexp
	firstMatch bool
}

// Exact matches a line byte-for-byte.
func Exact(line string) Marker {
	return Marker{literal: line}
}

// Pattern matches lines against a compiled expression.
func Pattern(re *regexp.Regexp) Marker {
	return Marker{pattern: re}
}

// FirstMatch returns a copy of the marker that resolves ties by taking the
// first occurrence instead of failing.
func (m Marker) FirstMatch() Marker {
	m.firstMatch = true
	return m
}

func (m Marker) describe() string {
	if m.pattern != nil {
		return fmt.Sprintf("pattern %q", m.pattern.String())
	}
	return fmt.Sprintf("line %q", m.literal)
}

func (m Marker) matches(line string) bool {
	if m.pattern != nil {
		return m.pattern.MatchString(line)
	}
	return line == m.literal
}

// find resolves the marker to exactly one anchor line index.
func (m Marker) find(lines []string) (int, error) {
	first := -1
	count := 0
	for i, line := range lines {
		if m.matches(line) {
			if first < 0 {
				first = i
			}
			count++
			if m.firstMatch {
				return first, nil
			}
		}
	}
	if first < 0 {
		return 0, services.Wrap(services.ErrMarkerNotFound, "markerdoc", "find", m.describe(), nil)
	}
	if count > 1 {
		return 0, fmt.Errorf("markerdoc: %s matched %d lines, expected exactly one", m.describe(), count)
	}
	return first, nil
}

// InsertBefore splices newLines immediately before the marker's anchor line.
func (d *Document) InsertBefore(marker Marker, newLines []string) error {
	anchor, err := marker.find(d.lines)
	if err != nil {
		return err
	}
	d.splice(anchor, newLines)
	return nil
}

// InsertAfter splices newLines immediately after the marker's anchor line.
func (d *Document) InsertAfter(marker Marker, newLines []string) error {
	anchor, err := marker.find(d.lines)
	if err != nil {
		return err
	}
	d.splice(anchor+1, newLines)
	return nil
}

// FindIndex exposes marker resolution for callers that need to locate a
// boundary relative to another (block start before end comment, etc).
func (d *Document) FindIndex(marker Marker) (int, error) {
	return marker.find(d.lines)
}

// RemoveMatching deletes every line matching pattern and returns the removed
// lines in order so the caller can log them for audit. Deleting when nothing
// matches is a no-op, which makes removal idempotent.
func (d *Document) RemoveMatching(pattern *regexp.Regexp) []string {
	var removed []string
	kept := make([]string, 0, len(d.lines))
	for _, line := range d.lines {
		if pattern.MatchString(line) {
			removed = append(removed, line)
			continue
		}
		kept = append(kept, line)
	}
	d.lines = kept
	return removed
}

func (d *Document) splice(at int, newLines []string) {
	if len(newLines) == 0 {
		return
	}
	lines := make([]string, 0, len(d.lines)+len(newLines))
	lines = append(lines, d.lines[:at]...)
	lines = append(lines, newLines...)
	lines = append(lines, d.lines[at:]...)
	d.lines = lines
}
