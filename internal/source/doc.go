// Package source reads and writes the human-editable source tree.
//
// A source tree holds the fragments shared by every deck (deck, config and
// model JSON, stylesheet, description, card templates, field display
// defaults, media, and the language-tagged data file) plus one directory per
// deck under decks/ with a build.json descriptor and optional overrides.
//
// Load returns an immutable Bundle of the shared fragments; LoadDeck and
// LoadDecks read per-deck directories. Writer emits the same layout and is
// used by the importer.
package source
