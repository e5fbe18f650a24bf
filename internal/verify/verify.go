package verify

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mmcheck/mmcheck/internal/database"
)

// Status is the outcome of verifying one theorem.
type Status string

const (
	// StatusVerified means the proof replays to exactly the declared
	// conclusion.
	StatusVerified Status = "verified"
	// StatusFailed means the proof failed; Result.Err explains where.
	StatusFailed Status = "failed"
)

// Result is the per-theorem verification outcome.
type Result struct {
	Label  string
	Status Status
	Err    *StepError // nil when verified
}

// Verify replays one theorem's proof. It is a pure function of the
// database snapshot at the theorem's position and the proof bytes; a
// failure is permanent for that input.
func Verify(db *database.Database, stmt *database.Statement) Result {
	label := stmt.Assertion.Label
	if err := run(db, stmt); err != nil {
		return Result{Label: label, Status: StatusFailed, Err: err}
	}
	return Result{Label: label, Status: StatusVerified}
}

func run(db *database.Database, stmt *database.Statement) *StepError {
	p := stmt.Assertion.Proof
	if p.Empty() {
		// Deliberate: an empty proof can never leave the (non-empty)
		// declared conclusion on the stack.
		return stepErrorf(CodeStackShapeMismatch, stmt.Assertion.Label, -1, "",
			"empty proof leaves an empty stack")
	}
	m := newMachine(db, stmt)
	if p.Packed {
		if err := m.runCompressed(p); err != nil {
			return err
		}
		return m.finish()
	}
	for i, label := range p.Labels {
		if label == "?" {
			return stepErrorf(CodeMalformedProof, stmt.Assertion.Label, i, "",
				"proof is incomplete")
		}
		if err := m.step(label, i); err != nil {
			return err
		}
	}
	return m.finish()
}

// Options configures a whole-database run.
type Options struct {
	// Jobs is the number of concurrent verification workers.
	// Values below 2 select the sequential path. 0 means sequential.
	Jobs int

	// FailFast stops scheduling new proofs after the first failure.
	// Reported results are still deterministic: the result sequence is
	// truncated in source order at the first failed theorem.
	FailFast bool
}

// DefaultJobs is the worker count used by callers that want parallelism
// without tuning.
func DefaultJobs() int {
	return runtime.GOMAXPROCS(0)
}

// All verifies every theorem in the database and returns results in
// source order. The database is read-only during the run, so workers
// share it without locking.
func All(ctx context.Context, db *database.Database, opts Options) ([]Result, error) {
	theorems := db.Theorems()
	if opts.Jobs < 2 {
		return allSequential(ctx, db, theorems, opts)
	}
	return allParallel(ctx, db, theorems, opts)
}

func allSequential(ctx context.Context, db *database.Database, theorems []*database.Statement, opts Options) ([]Result, error) {
	results := make([]Result, 0, len(theorems))
	for _, st := range theorems {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		r := Verify(db, st)
		results = append(results, r)
		if opts.FailFast && r.Status == StatusFailed {
			break
		}
	}
	return results, nil
}

// failFastError aborts the worker pool once any theorem fails.
type failFastError struct{}

func (failFastError) Error() string { return "verification failed" }

func isFailFast(err error) bool {
	_, ok := err.(failFastError)
	return ok
}

func allParallel(ctx context.Context, db *database.Database, theorems []*database.Statement, opts Options) ([]Result, error) {
	slots := make([]*Result, len(theorems))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for i, st := range theorems {
		i, st := i, st
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil // canceled before this slot ran
			}
			r := Verify(db, st)
			slots[i] = &r
			if opts.FailFast && r.Status == StatusFailed {
				return failFastError{}
			}
			return nil
		})
	}
	err := g.Wait()
	if err != nil && !isFailFast(err) {
		return nil, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	// Deterministic reporting: find the first failure in source order,
	// fill any slot before it that a fail-fast cancellation skipped
	// (verification is pure, so replaying here is safe), and truncate
	// at the failure.
	cut := len(theorems)
	if opts.FailFast {
		for i := range slots {
			if slots[i] != nil && slots[i].Status == StatusFailed {
				cut = i + 1
				break
			}
		}
	}
	results := make([]Result, 0, cut)
	for i := 0; i < cut; i++ {
		if slots[i] == nil {
			r := Verify(db, theorems[i])
			slots[i] = &r
			// A skipped slot may itself hold the earliest failure.
			if opts.FailFast && r.Status == StatusFailed {
				cut = i + 1
			}
		}
		results = append(results, *slots[i])
		if i+1 == cut {
			break
		}
	}
	return results, nil
}
