// Package namecache persists resolved workshop-ID to internal-map-name
// mappings so repeated builds never re-download a container whose name is
// already known.
//
// The cache is a single JSON document. Malformed content is tolerated as an
// empty cache rather than a fatal error: losing the cache only costs a
// re-derivation through the extraction path.
package namecache
