// Package services provides the error taxonomy and retry policy shared by
// every pipeline component, plus thin clients for the external tools the
// pipeline shells out to (vpk extraction/packing, thumbnail compilation).
//
// Failures are tagged with sentinel markers at the point of origin so the
// command layer can classify them without string matching: per-asset
// failures are skipped and counted, document patching failures abort the
// build, and installer failures trigger the backup-restore safety net.
package services
