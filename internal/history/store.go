package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/perktap/perktap/internal/model"
)

// Entry is one past search: what was asked and how many businesses came
// back. Results themselves are never persisted.
type Entry struct {
	ID          int64
	Mode        string
	Summary     string
	Criteria    model.SearchCriteria
	ResultCount int
	SearchedAt  time.Time
}

// Store keeps search history in a local SQLite database. The mutex
// covers writes from the signal-handling goroutine in headless mode.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if err := createSchema(db); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS searches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		mode TEXT NOT NULL,
		summary TEXT NOT NULL,
		criteria TEXT NOT NULL,
		result_count INTEGER NOT NULL,
		searched_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_searches_searched_at ON searches(searched_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Record appends one completed search.
func (s *Store) Record(mode string, summary string, criteria model.SearchCriteria, resultCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(criteria)
	if err != nil {
		return fmt.Errorf("encoding criteria: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO searches (mode, summary, criteria, result_count, searched_at) VALUES (?,?,?,?,?)`,
		mode, summary, string(raw), resultCount, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, mode, summary, criteria, result_count, searched_at
		 FROM searches ORDER BY searched_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var raw string
		if err := rows.Scan(&e.ID, &e.Mode, &e.Summary, &raw, &e.ResultCount, &e.SearchedAt); err != nil {
			continue
		}
		if err := json.Unmarshal([]byte(raw), &e.Criteria); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the total number of recorded searches.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM searches").Scan(&count)
	return count, err
}

func (s *Store) Close() error {
	return s.db.Close()
}
