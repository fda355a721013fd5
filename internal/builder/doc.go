// Package builder assembles export documents from a source tree.
//
// Each requested deck is built once per language projection of the data
// file. A build derives the projection's identifiers, merges the shared and
// per-deck fragments into Deck, DeckConfig and NoteModel records, turns every
// data row into a Note, and publishes the document together with the media it
// references. Output for one (deck, language) pair is staged next to its
// target directory and renamed into place, so a failed pair never leaves
// partial output behind.
package builder
