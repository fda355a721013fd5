// Package ledger keeps a local SQLite history of build, import, copy and
// reindex runs.
//
// The ledger is informational: the source tree stays authoritative and
// deleting the database loses nothing but history. Each recorded entry
// captures one deck outcome (target directory, note and media counts, or the
// failure message) so `ankideck history` can show what was produced when.
package ledger
