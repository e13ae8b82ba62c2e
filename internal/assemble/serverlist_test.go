package assemble

import (
	"reflect"
	"strings"
	"testing"

	"mappack/internal/identity"
)

func TestFilterOfficialMapsOrdering(t *testing.T) {
	policy := identity.Policy{
		PrefixPriority:   []string{"de_", "cs_", "aim_"},
		ExcludedSuffixes: []string{"nav"},
	}
	names := []string{
		"cs_office",
		"de_overpass",
		"de_nuke",
		"de_dust2_se",
		"aim_redline",
		"de_inferno_nav",
		"  DE_MIRAGE ",
		"training1",
	}

	got := FilterOfficialMaps(names, policy)
	want := []string{"de_nuke", "de_mirage", "de_overpass", "cs_office", "aim_redline"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterOfficialMaps = %v, want %v", got, want)
	}
}

func TestBuildServerListingOrder(t *testing.T) {
	assets := []identity.AssetRecord{
		{InternalName: "de_bank"},
		{InternalName: "surf_kitsune"},
	}
	listing, err := buildServerListing(assets, []string{"de_dust2", "cs_office"})
	if err != nil {
		t.Fatalf("buildServerListing failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(listing, "\n"), "\n")
	want := []string{
		serverListingHeader,
		"de_bank",
		"surf_kitsune",
		"de_dust2",
		"cs_office",
		serverListingBoundary,
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("listing lines = %v, want %v", lines, want)
	}
}
