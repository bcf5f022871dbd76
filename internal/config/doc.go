// Package config loads, normalizes, and validates regolith configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads the TOML file, and hands downstream code sanitized
// values: canonical log formats, parsed identifier schemes, and a checksum
// algorithm the installer is guaranteed to support.
package config
