// Package assemble turns resolved assets into the distributable package:
// it extracts the reference documents from the base game package, patches
// the map registry and per-locale string tables, stages thumbnails, and
// hands the staged tree to the external archiver.
//
// Patching failures are fatal for the whole build; thumbnail and
// single-locale problems are isolated and reported in the result.
package assemble
