// Package config loads, normalizes, and validates rosterid configuration
// from TOML files with sensible defaults for every value.
package config
