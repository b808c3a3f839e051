// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists Paper rows in a SQLite database. Each row is keyed
// by the paper's content-addressed ID; the ingest stage is the only writer
// and performs single-row reads and writes, so no cross-row transactions
// are needed.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/logan-lin/pubsummarizer/pkg/types"
)

// ErrNotFound is returned by Get when no row exists for the ID.
var ErrNotFound = errors.New("paper not found")

// Store wraps the SQLite database holding Paper rows.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at dbPath and ensures the schema
// exists.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			collection TEXT NOT NULL,
			title TEXT,
			platform TEXT,
			source_url TEXT,
			pdf_path TEXT,
			content TEXT,
			summary TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_collection ON papers(collection)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Insert writes a new Paper row. The content and summary fields are taken
// as-is: nil stays NULL, so a freshly fetched paper starts in the
// content-fetched phase.
func (s *Store) Insert(ctx context.Context, p *types.Paper) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO papers (id, collection, title, platform, source_url, pdf_path, content, summary, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Collection, p.Title, string(p.Platform), p.SourceURL, p.PDFPath,
		nullable(p.Content), nullable(p.Summary), now, now,
	)
	if err != nil {
		return fmt.Errorf("inserting paper %s: %w", p.ID, err)
	}
	return nil
}

// Get fetches one row by ID. Returns ErrNotFound when absent.
func (s *Store) Get(ctx context.Context, id string) (*types.Paper, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, collection, title, platform, source_url, pdf_path, content, summary
		 FROM papers WHERE id = ?`, id)

	p, err := scanPaper(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching paper %s: %w", id, err)
	}
	return p, nil
}

// SetContent records the extraction result as a whole-field replacement.
// An empty string is a valid value: it marks "extracted but empty", which
// keeps re-runs from re-downloading a PDF no strategy could read.
func (s *Store) SetContent(ctx context.Context, id, content string) error {
	return s.updateField(ctx, id, "content", content)
}

// SetSummary records the summarization output as a whole-field replacement.
func (s *Store) SetSummary(ctx context.Context, id, summary string) error {
	return s.updateField(ctx, id, "summary", summary)
}

func (s *Store) updateField(ctx context.Context, id, field, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE papers SET %s = ?, updated_at = ? WHERE id = ?`, field),
		value, now, id,
	)
	if err != nil {
		return fmt.Errorf("updating %s for %s: %w", field, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("updating %s for %s: %w", field, id, ErrNotFound)
	}
	return nil
}

// Delete removes a row by ID. Deleting an absent row is not an error, so
// force-rescrape runs are idempotent.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM papers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting paper %s: %w", id, err)
	}
	return nil
}

// Filter selects rows for List. Zero-valued fields do not constrain.
type Filter struct {
	// Collection restricts to one collection label.
	Collection string

	// MissingSummary selects rows whose summary is NULL: the
	// content-extracted-but-not-summarized set a summarize pass works on.
	MissingSummary bool

	// MissingContent selects rows whose content is NULL.
	MissingContent bool
}

// List returns rows matching the filter ordered by title.
func (s *Store) List(ctx context.Context, f Filter) ([]*types.Paper, error) {
	query := `SELECT id, collection, title, platform, source_url, pdf_path, content, summary FROM papers WHERE 1=1`
	var args []any

	if f.Collection != "" {
		query += ` AND collection = ?`
		args = append(args, f.Collection)
	}
	if f.MissingSummary {
		query += ` AND summary IS NULL`
	}
	if f.MissingContent {
		query += ` AND content IS NULL`
	}
	query += ` ORDER BY title COLLATE NOCASE`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	var papers []*types.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// Count returns the total number of rows, optionally scoped to a collection.
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	query := `SELECT count(*) FROM papers`
	var args []any
	if collection != "" {
		query += ` WHERE collection = ?`
		args = append(args, collection)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPaper(sc scanner) (*types.Paper, error) {
	var p types.Paper
	var platform string
	var content, summary sql.NullString

	err := sc.Scan(&p.ID, &p.Collection, &p.Title, &platform, &p.SourceURL, &p.PDFPath, &content, &summary)
	if err != nil {
		return nil, err
	}

	p.Platform = types.Platform(platform)
	if content.Valid {
		p.Content = &content.String
	}
	if summary.Valid {
		p.Summary = &summary.String
	}
	return &p, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
