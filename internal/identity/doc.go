// Package identity resolves workshop assets to the canonical internal map
// name and friendly display title the game client needs.
//
// Resolution is a tiered fallback: the platform's explicit filename field,
// then the persistent name cache, then downloading the asset's container
// and selecting the best listing entry under a deterministic prefix and
// shortest-name policy. Resolving the same external ID twice never repeats
// the expensive extraction tier.
package identity
