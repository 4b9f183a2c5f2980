package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Entry represents a submitted search query
type Entry struct {
	ID         int
	Query      string
	Document   string // Source name the query ran against
	SearchedAt time.Time
}

// Store manages search history persistence
type Store struct {
	db         *sql.DB
	maxEntries int
}

// NewStore creates a new history store. maxEntries <= 0 keeps everything.
func NewStore(path string, maxEntries int) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	// Create schema
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db, maxEntries: maxEntries}, nil
}

// Add records a query. A repeated query moves to the front instead of
// being stored twice. Blank queries are ignored.
func (s *Store) Add(query, document string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM search_history WHERE query = ?`, query); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO search_history (query, document) VALUES (?, ?)`, query, document); err != nil {
		return err
	}
	if s.maxEntries > 0 {
		_, err := tx.Exec(`
			DELETE FROM search_history
			WHERE id NOT IN (SELECT id FROM search_history ORDER BY id DESC LIMIT ?)`, s.maxEntries)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetRecent retrieves the most recent queries, newest first
func (s *Store) GetRecent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, query, document, searched_at
		FROM search_history
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// Search finds queries containing text, newest first
func (s *Store) Search(text string, limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, query, document, searched_at
		FROM search_history
		WHERE query LIKE ?
		ORDER BY id DESC
		LIMIT ?`, "%"+text+"%", limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// Clear removes every entry
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM search_history`)
	return err
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Query, &e.Document, &e.SearchedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
