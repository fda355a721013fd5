// Package deckerr defines the error markers shared by the deck pipeline.
//
// Every failure the builder, importer, reindexer, or duplicator reports is
// tagged with one of the kind sentinels below (missing file, invalid format,
// validation, I/O, unsupported character) so the CLI can print a single
// user-facing line while callers still branch with errors.Is. Validation
// failures carry a finer sub-kind (missing field, duplicate guid, ...) that
// also matches ErrValidation.
package deckerr
