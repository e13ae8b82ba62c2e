// Package markerdoc patches line-oriented configuration documents relative
// to marker lines. It backs the three dialects the pipeline touches: the
// map registry, the per-locale string tables, and the server map listing,
// plus the install tool's shared config mutation.
//
// Patch operations are structural splices, never regex rewrites of line
// content: lines before the anchor, new content, remaining lines, re-joined
// with the terminator the target dialect requires. A missing marker is a
// hard failure; silent no-ops are forbidden.
package markerdoc
