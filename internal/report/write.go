package report

import (
	"context"
	"fmt"
	"time"
)

// SaveRun inserts a run and its per-statement results in one transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - saving the same run
// twice is a no-op.
func (s *Store) SaveRun(ctx context.Context, run *Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	defer tx.Rollback()

	sum := run.Summarize()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, database, created_at, theorems, verified, failed)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Database,
		run.CreatedAt.UTC().Format(time.RFC3339),
		sum.Theorems,
		sum.Verified,
		sum.Failed,
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Run already recorded; results are immutable, nothing to do.
		return nil
	}

	for i, sr := range run.Results {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO results (run_id, seq, label, status, code, reason)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			run.ID, i, sr.Label, string(sr.Status), sr.Code, sr.Reason,
		); err != nil {
			return fmt.Errorf("save run result %q: %w", sr.Label, err)
		}
	}
	return tx.Commit()
}
