package store

import (
	"context"
	"fmt"
	"time"
)

// MarkSeenIfNew records a job identity and reports whether it was new. The
// ledger is what keeps repeat runs from re-notifying the same posting.
func (s *Store) MarkSeenIfNew(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("empty seen id")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO seen(id, first_seen) VALUES(?, ?);`,
		id, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("mark seen: %w", err)
	}

	var changes int
	if err := s.db.QueryRowContext(ctx, `SELECT changes();`).Scan(&changes); err != nil {
		return false, fmt.Errorf("mark seen changes: %w", err)
	}
	return changes > 0, nil
}

// SeenCount reports the ledger size, used by the status endpoint.
func (s *Store) SeenCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seen;`).Scan(&n)
	return n, err
}
