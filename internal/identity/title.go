package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	maxTitleWords = 3
	maxTitleRunes = 15
)

var titleCaser = cases.Title(language.Und)

// DeriveTitle produces the friendly display title for an asset. The
// original workshop title is preferred when it survives cleaning; otherwise
// the title is derived from the internal name. Deterministic: identical
// inputs always yield identical output.
func DeriveTitle(originalTitle, internalName string, policy Policy) string {
	if cleaned, ok := cleanTitle(originalTitle); ok {
		return cleaned
	}
	return titleFromInternalName(internalName, policy)
}

// cleanTitle truncates at the first parenthesis, trims whitespace, and
// accepts the result only if it has at least one uppercase letter, at most
// three words, and at most fifteen characters.
func cleanTitle(title string) (string, bool) {
	if idx := strings.IndexByte(title, '('); idx >= 0 {
		title = title[:idx]
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", false
	}
	if !strings.ContainsFunc(title, unicode.IsUpper) {
		return "", false
	}
	if len(strings.Fields(title)) > maxTitleWords {
		return "", false
	}
	if len([]rune(title)) > maxTitleRunes {
		return "", false
	}
	return title, true
}

// titleFromInternalName splits the internal name on underscore and
// capitalizes the second segment, falling back to the first when the second
// is itself an excluded-suffix category.
func titleFromInternalName(internalName string, policy Policy) string {
	segments := strings.Split(internalName, "_")
	segment := segments[0]
	if len(segments) > 1 && !policy.Excluded(segments[1]) {
		segment = segments[1]
	}
	return titleCaser.String(segment)
}
