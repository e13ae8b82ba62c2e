// Package workshop talks to the asset platform: metadata lookups over its
// web API, container and preview downloads from its CDN, and enumeration of
// a downloaded container's internal file listing.
//
// All calls take a context and apply the bounded retry policy from the
// services package; callers see either a decoded result or a classified
// error, never a partially written file.
package workshop
