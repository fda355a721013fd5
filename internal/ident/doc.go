// Package ident implements the deterministic identifier transforms used by the
// deck pipeline.
//
// Deck, configuration, and model identifiers are UUIDs that get a per-language
// variant through a Caesar-style shift of their hex digits. Note identifiers
// (guids) are obfuscated against the model identifier over the same 91-symbol
// alphabet the flashcard application uses for its own generated guids, so an
// export document never exposes the guid stored in data.csv and importing the
// document restores it without a lookup table. None of this is cryptography;
// the transforms only keep identifiers stable and distinct.
package ident
