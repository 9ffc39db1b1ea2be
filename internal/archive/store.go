// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists normalized predictions in a local SQLite
// database so batch runs can be listed and exported later without going
// back to the remote service.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Vaishnav14220/chem-canvas-sub005/pkg/types"
)

// DefaultPath is where the CLI keeps its archive.
const DefaultPath = "archive/predictions.db"

// timeLayout keeps fetched_at fixed-width so it sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrNotFound is returned by Get for an entry that was never archived.
var ErrNotFound = errors.New("prediction not archived")

// Store manages the archive database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to stamp saved entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Entry is one archived prediction and when it was saved.
type Entry struct {
	Prediction types.Prediction `json:"prediction" yaml:"prediction"`
	FetchedAt  time.Time        `json:"fetched_at" yaml:"fetched_at"`
}

// ListOptions filters List and the exports. Zero values match everything.
type ListOptions struct {
	Accession string
	// Organism matches as a case-insensitive substring.
	Organism string
	Limit    int
}

// SaveSummary counts the outcome of a Save.
type SaveSummary struct {
	Inserted int
	Updated  int
}

// Open opens or creates the archive at path, creating parent directories
// and the schema as needed.
func Open(path string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			entry_id TEXT NOT NULL,
			version TEXT NOT NULL DEFAULT '',
			accession TEXT NOT NULL,
			name TEXT,
			organism TEXT,
			record TEXT NOT NULL,
			fetched_at TEXT NOT NULL,
			PRIMARY KEY (entry_id, version)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_accession ON predictions(accession)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save upserts preds in one transaction. An entry is keyed by entry id and
// version, so a new model version is kept alongside the old one.
func (s *Store) Save(ctx context.Context, preds []types.Prediction) (SaveSummary, error) {
	var summary SaveSummary
	if len(preds) == 0 {
		return summary, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO predictions (entry_id, version, accession, name, organism, record, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(entry_id, version) DO UPDATE SET
			accession=excluded.accession, name=excluded.name, organism=excluded.organism,
			record=excluded.record, fetched_at=excluded.fetched_at`)
	if err != nil {
		return summary, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	fetchedAt := s.now().UTC().Format(timeLayout)
	for _, p := range preds {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT count(*) FROM predictions WHERE entry_id = ? AND version = ?`,
			p.EntryID, p.StructureVersion,
		).Scan(&exists)
		if err != nil {
			return summary, fmt.Errorf("checking %s: %w", p.EntryID, err)
		}

		record, err := json.Marshal(p)
		if err != nil {
			return summary, fmt.Errorf("encoding %s: %w", p.EntryID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			p.EntryID, p.StructureVersion, p.AccessionID, p.DisplayName, p.Organism,
			string(record), fetchedAt,
		); err != nil {
			return summary, fmt.Errorf("saving %s: %w", p.EntryID, err)
		}

		if exists > 0 {
			summary.Updated++
		} else {
			summary.Inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing: %w", err)
	}
	return summary, nil
}

// Get returns the most recently saved version of entryID.
func (s *Store) Get(ctx context.Context, entryID string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT record, fetched_at FROM predictions
		 WHERE entry_id = ? ORDER BY fetched_at DESC, version DESC LIMIT 1`, entryID)

	var record, fetchedAt string
	if err := row.Scan(&record, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("querying %s: %w", entryID, err)
	}
	e, err := decodeEntry(record, fetchedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns archived entries ordered by accession, entry id and version.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	var (
		where []string
		args  []any
	)
	if opts.Accession != "" {
		where = append(where, "accession = ?")
		args = append(args, opts.Accession)
	}
	if opts.Organism != "" {
		where = append(where, "lower(organism) LIKE ?")
		args = append(args, "%"+strings.ToLower(opts.Organism)+"%")
	}

	q := `SELECT record, fetched_at FROM predictions`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY accession, entry_id, version"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing predictions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var record, fetchedAt string
		if err := rows.Scan(&record, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e, err := decodeEntry(record, fetchedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func decodeEntry(record, fetchedAt string) (Entry, error) {
	var e Entry
	if err := json.Unmarshal([]byte(record), &e.Prediction); err != nil {
		return Entry{}, fmt.Errorf("decoding archived record: %w", err)
	}
	t, err := time.Parse(timeLayout, fetchedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing fetched_at %q: %w", fetchedAt, err)
	}
	e.FetchedAt = t
	return e, nil
}
