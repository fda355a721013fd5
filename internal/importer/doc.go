// Package importer disassembles an export document into a source tree.
//
// The document's own identifiers are discarded: the imported deck receives
// freshly minted deck, config and model UUIDs, and every note guid is
// de-obfuscated against the new model UUID so that building the tree again
// yields the same note guids as the document.
package importer
