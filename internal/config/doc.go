// Package config loads, normalizes, and validates ankideck configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the ANKIDECK_SOURCE_DIR and ANKIDECK_BUILD_DIR
// environment overrides. Commands obtain the source tree, build tree, ledger
// location, and log settings from one Config value.
package config
