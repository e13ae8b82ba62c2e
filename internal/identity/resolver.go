package identity

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mappack/internal/logging"
	"mappack/internal/namecache"
	"mappack/internal/services"
	"mappack/internal/workshop"
)

// AssetRecord is one resolved map: the canonical internal identifier the
// engine uses, the human-displayed title, and where to fetch the thumbnail.
type AssetRecord struct {
	ExternalID    string
	InternalName  string
	FriendlyTitle string
	ThumbnailRef  string
}

// Policy is the deterministic name-selection policy applied to container
// listings and to the official-map filter.
type Policy struct {
	// PrefixPriority is tried in declared order; within a matching prefix
	// the shortest candidate wins.
	PrefixPriority []string
	// ExcludedSuffixes name auxiliary sub-resource categories (skybox,
	// radar, ...) that never identify the map itself.
	ExcludedSuffixes []string
}

// Excluded reports whether name ends in one of the excluded-suffix
// categories, or is itself such a category token.
func (p Policy) Excluded(name string) bool {
	for _, suffix := range p.ExcludedSuffixes {
		if name == suffix || strings.HasSuffix(name, "_"+suffix) {
			return true
		}
	}
	return false
}

// Resolver derives internal names and friendly titles for workshop assets
// using a tiered fallback strategy. Tiers are attempted strictly in order;
// each one runs only if the previous yielded nothing.
type Resolver struct {
	policy  Policy
	cache   *namecache.Cache
	fetcher workshop.ContainerFetcher
	workDir string
	logger  *slog.Logger
}

// NewResolver creates a resolver. workDir hosts the transient extraction
// directories tier 3 needs; they are removed after use regardless of
// outcome.
func NewResolver(policy Policy, cache *namecache.Cache, fetcher workshop.ContainerFetcher, workDir string, logger *slog.Logger) *Resolver {
	return &Resolver{
		policy:  policy,
		cache:   cache,
		fetcher: fetcher,
		workDir: workDir,
		logger:  logging.NewComponentLogger(logger, "resolver"),
	}
}

// Resolve derives the AssetRecord for one asset. It fails with
// ErrUnresolvedIdentity only when every tier is exhausted.
func (r *Resolver) Resolve(ctx context.Context, details workshop.FileDetails) (AssetRecord, error) {
	record := AssetRecord{
		ExternalID:   details.ExternalID,
		ThumbnailRef: details.PreviewURL,
	}

	name, err := r.resolveInternalName(ctx, details)
	if err != nil {
		return AssetRecord{}, err
	}
	record.InternalName = name
	record.FriendlyTitle = DeriveTitle(details.Title, name, r.policy)

	r.logger.Debug("resolved asset",
		logging.String("external_id", record.ExternalID),
		logging.String("internal_name", record.InternalName),
		logging.String("title", record.FriendlyTitle))
	return record, nil
}

func (r *Resolver) resolveInternalName(ctx context.Context, details workshop.FileDetails) (string, error) {
	// Tier 1: authoritative metadata field. Highest trust, skips the rest.
	if details.FileName != "" {
		base := filepath.Base(details.FileName)
		name := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
		if name != "" {
			return name, nil
		}
	}

	// Tier 2: previously derived name.
	if name, found := r.cache.Get(details.ExternalID); found {
		r.logger.Debug("cache hit",
			logging.String("external_id", details.ExternalID),
			logging.String("internal_name", name))
		return name, nil
	}

	// Tier 3: download the container and pick the best listing entry.
	name, err := r.extractInternalName(ctx, details)
	if err != nil {
		return "", err
	}

	if err := r.cache.Put(details.ExternalID, name); err != nil {
		// A failed cache write only costs a future re-derivation.
		r.logger.Warn("failed to persist name cache entry",
			logging.String("external_id", details.ExternalID),
			logging.Error(err))
	}
	return name, nil
}

func (r *Resolver) extractInternalName(ctx context.Context, details workshop.FileDetails) (string, error) {
	if details.FileURL == "" {
		return "", services.Wrap(services.ErrUnresolvedIdentity, "resolver", "extract",
			details.ExternalID+": no container available", nil)
	}

	scratch, err := os.MkdirTemp(r.workDir, "extract-"+details.ExternalID+"-")
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "resolver", "extract", "create scratch dir", err)
	}
	defer os.RemoveAll(scratch)

	containerPath := filepath.Join(scratch, "container.bin")
	if err := r.fetcher.Download(ctx, details.FileURL, containerPath); err != nil {
		return "", services.Wrap(services.ErrUnresolvedIdentity, "resolver", "extract",
			details.ExternalID+": container download failed", err)
	}

	entries, err := workshop.ListContainer(containerPath)
	if err != nil {
		return "", services.Wrap(services.ErrUnresolvedIdentity, "resolver", "extract",
			details.ExternalID+": container listing failed", err)
	}

	name, ok := SelectInternalName(entries, r.policy)
	if !ok {
		return "", services.Wrap(services.ErrUnresolvedIdentity, "resolver", "extract",
			details.ExternalID+": no plausible listing entry", nil)
	}
	return name, nil
}

// mapEntryExtensions are the container-internal shapes a map file can take.
var mapEntryExtensions = map[string]bool{".bsp": true, ".vpk": true}

// SelectInternalName applies the deterministic selection policy to a
// container listing and returns the best-candidate internal name.
func SelectInternalName(entries []string, policy Policy) (string, bool) {
	var candidates []string
	for _, entry := range entries {
		entry = strings.ToLower(strings.ReplaceAll(entry, "\\", "/"))
		if !strings.HasPrefix(entry, "maps/") {
			continue
		}
		ext := filepath.Ext(entry)
		if !mapEntryExtensions[ext] {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(entry), ext)
		if name == "" || policy.Excluded(name) {
			continue
		}
		candidates = append(candidates, name)
	}
	if len(candidates) == 0 {
		return "", false
	}

	// The shortest-name heuristic avoids matching a longer decorated
	// variant of the same map.
	sortByLengthThenName(candidates)

	for _, prefix := range policy.PrefixPriority {
		for _, name := range candidates {
			if strings.HasPrefix(name, prefix) {
				return name, true
			}
		}
	}
	for _, name := range candidates {
		if strings.Contains(name, "_") {
			return name, true
		}
	}
	return candidates[0], true
}

func sortByLengthThenName(names []string) {
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) < len(names[j])
		}
		return names[i] < names[j]
	})
}
