// Package usage persists per-template usage counts in a local SQLite
// database. Catalogs stay read-only; stored counts are merged into
// template UsageCount at scoring time.
package usage

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"tranceforge/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS template_usage (
	template_id TEXT PRIMARY KEY,
	use_count   INTEGER NOT NULL DEFAULT 0,
	last_used   TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

// Store is a SQLite-backed usage counter. Safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the usage database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open usage store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create usage schema: %w", err)
	}
	logging.Get(logging.CategoryStore).Info("usage store opened: %s", path)
	return &Store{db: db}, nil
}

// Record increments the usage count for a template.
func (s *Store) Record(templateID string) error {
	if templateID == "" {
		return fmt.Errorf("template id required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO template_usage (template_id, use_count, last_used)
		VALUES (?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(template_id) DO UPDATE SET
			use_count = use_count + 1,
			last_used = CURRENT_TIMESTAMP`, templateID)
	if err != nil {
		return fmt.Errorf("failed to record usage for %q: %w", templateID, err)
	}
	logging.Get(logging.CategoryStore).Debug("recorded usage: %s", templateID)
	return nil
}

// Counts returns the stored usage count per template ID.
func (s *Store) Counts() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT template_id, use_count FROM template_usage`)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		counts[id] = count
	}
	return counts, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
