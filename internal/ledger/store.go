package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// timeLayout keeps a fixed width so recorded_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one recorded deck outcome.
type Entry struct {
	ID         int64
	Command    string
	Deck       string
	Language   string
	Target     string
	Notes      int
	Media      int
	Status     string
	Error      string
	RecordedAt time.Time
}

// Store manages ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure ledger directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends entries in one transaction. A zero RecordedAt is set to
// the current time.
func (s *Store) Record(ctx context.Context, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, e := range entries {
		recorded := e.RecordedAt
		if recorded.IsZero() {
			recorded = now
		}
		status := e.Status
		if status == "" {
			status = StatusOK
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entries (command, deck, language, target, notes, media, status, error_message, recorded_at)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.Command,
			e.Deck,
			nullableString(e.Language),
			nullableString(e.Target),
			e.Notes,
			e.Media,
			status,
			nullableString(e.Error),
			recorded.UTC().Format(timeLayout),
		); err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit entries: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A limit <= 0 returns all.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, command, deck, language, target, notes, media, status, error_message, recorded_at
              FROM entries ORDER BY recorded_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                             Entry
			language, target, errorString sql.NullString
			recorded                      string
		)
		if err := rows.Scan(&e.ID, &e.Command, &e.Deck, &language, &target, &e.Notes, &e.Media, &e.Status, &errorString, &recorded); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Language = language.String
		e.Target = target.String
		e.Error = errorString.String
		if ts, err := time.Parse(timeLayout, recorded); err == nil {
			e.RecordedAt = ts
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
