// Package crowdanki models the JSON deck package exchanged with the flashcard
// application: a Deck record embedding its configuration, note model, notes,
// and media file list, each tagged with a "__type__" discriminator.
//
// Records carry the keys the pipeline reads or writes as typed fields and keep
// every other key in an Extra object, so scheduler and model options the
// pipeline does not understand survive a decode/encode cycle untouched.
package crowdanki
