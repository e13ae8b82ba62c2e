package assemble

import (
	"sort"
	"strings"

	"mappack/internal/identity"
	"mappack/internal/markerdoc"
)

const (
	serverListingFile     = "maplist.txt"
	serverListingHeader   = "// generated map listing"
	serverListingBoundary = "// end of map listing"
)

// decorativeSuffixes flag official map variants that exist for looks only
// and should never appear in a server rotation.
var decorativeSuffixes = []string{"se", "vanity"}

// FilterOfficialMaps selects the official built-in maps worth listing,
// using the same prefix-priority policy as internal-name resolution:
// prefixes in declared order, shortest name first within a prefix.
// Decorative variants and excluded sub-resource names are dropped; names
// matching no prefix are dropped entirely.
func FilterOfficialMaps(names []string, policy identity.Policy) []string {
	eligible := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || policy.Excluded(name) || isDecorative(name) {
			continue
		}
		eligible = append(eligible, name)
	}
	sort.Slice(eligible, func(i, j int) bool {
		if len(eligible[i]) != len(eligible[j]) {
			return len(eligible[i]) < len(eligible[j])
		}
		return eligible[i] < eligible[j]
	})

	var selected []string
	seen := make(map[string]bool)
	for _, prefix := range policy.PrefixPriority {
		for _, name := range eligible {
			if !seen[name] && strings.HasPrefix(name, prefix) {
				selected = append(selected, name)
				seen[name] = true
			}
		}
	}
	return selected
}

func isDecorative(name string) bool {
	for _, suffix := range decorativeSuffixes {
		if strings.HasSuffix(name, "_"+suffix) {
			return true
		}
	}
	return false
}

// buildServerListing produces the server-config dialect document listing
// the packaged workshop maps plus any selected official maps. The listing
// is generated through the same marker patcher as the other dialects.
func buildServerListing(assets []identity.AssetRecord, official []string) (string, error) {
	doc := markerdoc.Parse(serverListingHeader+"\n"+serverListingBoundary+"\n", markerdoc.LF)

	entries := make([]string, 0, len(assets)+len(official))
	for _, asset := range assets {
		entries = append(entries, asset.InternalName)
	}
	entries = append(entries, official...)

	if err := doc.InsertBefore(markerdoc.Exact(serverListingBoundary), entries); err != nil {
		return "", err
	}
	return doc.Render(), nil
}
