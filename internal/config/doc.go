// Package config loads, normalizes, and validates the TOML configuration
// shared by the build and install tools.
//
// A Config value is constructed once at startup and passed explicitly into
// every component constructor. Path fields are tilde-expanded and made
// absolute during normalization so downstream code never deals with raw
// user input.
package config
