package baseline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/cncc/pkg/core"
)

// Fingerprints identifies each violation independently of its line and
// column, so unrelated edits do not invalidate the baseline. Repeats of
// the same name under the same rule in one file are told apart by their
// order of appearance. Files are keyed by absolute path, so the same file
// named relatively or from another directory keeps its fingerprints.
func Fingerprints(violations []core.Violation) []string {
	seen := make(map[string]int, len(violations))
	out := make([]string, len(violations))
	for i, v := range violations {
		key := strings.Join([]string{absPath(v.File), v.RuleName, v.DisplayName, v.Pattern}, "\x00")
		n := seen[key]
		seen[key] = n + 1

		sum := sha256.Sum256([]byte(key + "\x00" + strconv.Itoa(n)))
		out[i] = hex.EncodeToString(sum[:])
	}
	return out
}

// Filter drops violations already present in the baseline and returns the
// rest with the number suppressed.
func (s *Store) Filter(ctx context.Context, violations []core.Violation) ([]core.Violation, int, error) {
	if len(violations) == 0 {
		return violations, 0, nil
	}

	kept := make([]core.Violation, 0, len(violations))
	suppressed := 0
	for i, fp := range Fingerprints(violations) {
		var one int
		err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE fingerprint = ?`, fp).Scan(&one)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to query baseline: %w", err)
		}
		if one > 0 {
			suppressed++
			continue
		}
		kept = append(kept, violations[i])
	}
	return kept, suppressed, nil
}

// Replace makes violations the complete baseline recorded for the scanned
// input file.
func (s *Store) Replace(ctx context.Context, runID, file string, violations []core.Violation) (err error) {
	file = absPath(file)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM entries WHERE file = ?`, file); err != nil {
		return fmt.Errorf("failed to clear baseline for %s: %w", file, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO entries
		(fingerprint, file, rule, display_name, pattern, line, col, run_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().UnixMilli()
	for i, fp := range Fingerprints(violations) {
		v := violations[i]
		if _, err = stmt.ExecContext(ctx, fp, file, v.RuleName, v.DisplayName, v.Pattern, v.Line, v.Column, runID, now); err != nil {
			return fmt.Errorf("failed to record violation: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit baseline: %w", err)
	}

	s.logger.Debug("baseline updated", slog.String("file", file), slog.Int("entries", len(violations)))
	return nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
