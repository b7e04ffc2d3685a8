// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata persists paper metadata in a local SQLite database
// alongside the vector index. The store is optional: with no path
// configured it becomes a no-op collaborator, so calling code never
// branches on whether metadata persistence is enabled.
package metadata

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-rag/pkg/types"
)

// Store manages the paper metadata SQLite database.
type Store struct {
	db *sql.DB // nil when the store is disabled
}

// NewStore opens or creates the metadata database at cfg.Path, creating
// the schema if needed. An empty path returns a disabled store whose
// methods succeed without doing anything.
func NewStore(cfg types.MetadataStoreConfig) (*Store, error) {
	if cfg.Path == "" {
		return &Store{}, nil
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
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

// Enabled reports whether the store is backed by a database.
func (s *Store) Enabled() bool { return s.db != nil }

// Close releases the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS papers (
		id TEXT PRIMARY KEY,
		title TEXT,
		authors TEXT,
		abstract TEXT,
		published_date TEXT,
		source_url TEXT,
		pdf_url TEXT,
		categories TEXT,
		citation_count INTEGER DEFAULT 0,
		venue TEXT,
		ingested_at TEXT,
		updated_at TEXT
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// SavePaper upserts a paper record. Re-saving an existing paper keeps
// its ingested_at and refreshes updated_at and the fields that drift
// over time (citation count, venue).
func (s *Store) SavePaper(ctx context.Context, paper types.Paper) error {
	if s.db == nil {
		return nil
	}

	authorsJSON, _ := json.Marshal(paper.Authors)
	categoriesJSON, _ := json.Marshal(paper.Categories)
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO papers (id, title, authors, abstract, published_date, source_url,
			pdf_url, categories, citation_count, venue, ingested_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, abstract=excluded.abstract,
			published_date=excluded.published_date, source_url=excluded.source_url,
			pdf_url=excluded.pdf_url, categories=excluded.categories,
			citation_count=excluded.citation_count, venue=excluded.venue,
			updated_at=excluded.updated_at`,
		paper.ID, paper.Title, string(authorsJSON), paper.Abstract, paper.PublishedDate,
		paper.SourceURL, paper.PDFURL, string(categoriesJSON), paper.CitationCount,
		paper.Venue, now, now,
	)
	if err != nil {
		return fmt.Errorf("upserting paper %s: %w", paper.ID, err)
	}
	return nil
}

// GetPaper returns a stored paper by ID, or nil if not found.
func (s *Store) GetPaper(ctx context.Context, paperID string) (*types.Paper, error) {
	if s.db == nil {
		return nil, nil
	}

	var p types.Paper
	var authorsJSON, categoriesJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, authors, abstract, published_date, source_url, pdf_url,
			categories, citation_count, venue
		 FROM papers WHERE id = ?`, paperID,
	).Scan(&p.ID, &p.Title, &authorsJSON, &p.Abstract, &p.PublishedDate,
		&p.SourceURL, &p.PDFURL, &categoriesJSON, &p.CitationCount, &p.Venue)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying paper %s: %w", paperID, err)
	}

	if err := json.Unmarshal([]byte(authorsJSON), &p.Authors); err != nil {
		return nil, fmt.Errorf("parsing authors for %s: %w", paperID, err)
	}
	if err := json.Unmarshal([]byte(categoriesJSON), &p.Categories); err != nil {
		return nil, fmt.Errorf("parsing categories for %s: %w", paperID, err)
	}
	return &p, nil
}

// Count returns the number of stored papers. A disabled store counts
// zero.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, nil
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}
