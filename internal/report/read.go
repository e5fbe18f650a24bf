package report

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcheck/mmcheck/internal/verify"
)

// RunInfo is a stored run's header row.
type RunInfo struct {
	ID        string
	Database  string
	CreatedAt time.Time
	Summary   Summary
}

// ListRuns returns stored runs ordered by creation time, oldest first.
// An empty database name lists runs over every database.
func (s *Store) ListRuns(ctx context.Context, database string) ([]RunInfo, error) {
	query := `
		SELECT id, database, created_at, theorems, verified, failed
		FROM runs ORDER BY created_at, id
	`
	args := []any{}
	if database != "" {
		query = `
			SELECT id, database, created_at, theorems, verified, failed
			FROM runs WHERE database = ? ORDER BY created_at, id
		`
		args = append(args, database)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		var info RunInfo
		var created string
		if err := rows.Scan(&info.ID, &info.Database, &created,
			&info.Summary.Theorems, &info.Summary.Verified, &info.Summary.Failed); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		info.CreatedAt, err = time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("list runs: bad created_at %q: %w", created, err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// GetRun loads one stored run with its full result sequence.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	run := &Run{ID: id}
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT database, created_at FROM runs WHERE id = ?`, id,
	).Scan(&run.Database, &created)
	if err != nil {
		return nil, fmt.Errorf("get run %q: %w", id, err)
	}
	run.CreatedAt, err = time.Parse(time.RFC3339, created)
	if err != nil {
		return nil, fmt.Errorf("get run %q: bad created_at: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT label, status, code, reason FROM results
		WHERE run_id = ? ORDER BY seq
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get run %q: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var sr StatementResult
		var status string
		if err := rows.Scan(&sr.Label, &status, &sr.Code, &sr.Reason); err != nil {
			return nil, fmt.Errorf("get run %q: %w", id, err)
		}
		sr.Status = verify.Status(status)
		run.Results = append(run.Results, sr)
	}
	return run, rows.Err()
}

// Delta is one label whose outcome differs between two runs.
type Delta struct {
	Label string
	From  verify.Status // "" when the label is new in the second run
	To    verify.Status // "" when the label disappeared
}

// DiffRuns compares two stored runs label by label, in the second run's
// source order, then reports labels only the first run had. Identical
// outcomes produce no delta; only status flips, additions and removals do.
func (s *Store) DiffRuns(ctx context.Context, fromID, toID string) ([]Delta, error) {
	from, err := s.GetRun(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.GetRun(ctx, toID)
	if err != nil {
		return nil, err
	}

	fromStatus := make(map[string]verify.Status, len(from.Results))
	for _, sr := range from.Results {
		fromStatus[sr.Label] = sr.Status
	}

	var deltas []Delta
	seen := make(map[string]bool, len(to.Results))
	for _, sr := range to.Results {
		seen[sr.Label] = true
		prev, ok := fromStatus[sr.Label]
		switch {
		case !ok:
			deltas = append(deltas, Delta{Label: sr.Label, To: sr.Status})
		case prev != sr.Status:
			deltas = append(deltas, Delta{Label: sr.Label, From: prev, To: sr.Status})
		}
	}
	for _, sr := range from.Results {
		if !seen[sr.Label] {
			deltas = append(deltas, Delta{Label: sr.Label, From: sr.Status})
		}
	}
	return deltas, nil
}
