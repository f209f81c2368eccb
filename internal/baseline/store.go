// Package baseline records known naming violations in SQLite so that later
// runs report only new ones.
package baseline

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// Store is a baseline database.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens or creates the baseline at path and applies pending
// migrations. Use ":memory:" for a throwaway baseline.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open baseline database: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping baseline database: %w", err)
	}

	s := &Store{db: db, path: path, logger: logger}
	if err := s.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("baseline opened", slog.String("path", path))
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the path the store was opened with.
func (s *Store) Path() string { return s.path }

// Len returns the number of recorded entries.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count baseline entries: %w", err)
	}
	return n, nil
}

func generateID() string {
	return uuid.New().String()
}
