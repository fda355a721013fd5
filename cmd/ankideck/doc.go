// Package main hosts the ankideck CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into builds,
// imports, deck copies, guid reindexing, and listings over one source tree.
// It centralizes configuration resolution, logger construction, and the
// source-tree lock so subcommands only wire flags to the internal packages.
package main
