package report

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmcheck/mmcheck/internal/verify"
)

// RunIDGenerator generates unique run identifiers.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs, so listing runs
// by ID also lists them by creation time.
//
// Thread-safety: stateless, safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined run IDs for deterministic tests
// and golden snapshot comparison.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
// Generate panics once the ids are exhausted; tests should know exactly
// how many runs they create.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined ID.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.ids) {
		panic("report: FixedGenerator exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// StatementResult is one theorem's outcome in a run report.
type StatementResult struct {
	Label  string
	Status verify.Status
	Code   string // semantic error code, empty when verified
	Reason string // human-readable explanation, empty when verified
}

// Run is a complete verification run over one database.
type Run struct {
	ID        string
	Database  string
	CreatedAt time.Time
	Results   []StatementResult
}

// Summary aggregates a run's outcomes.
type Summary struct {
	Theorems int
	Verified int
	Failed   int
}

// New builds a Run from engine results, preserving source order.
func New(gen RunIDGenerator, dbName string, results []verify.Result) *Run {
	out := make([]StatementResult, len(results))
	for i, r := range results {
		sr := StatementResult{Label: r.Label, Status: r.Status}
		if r.Err != nil {
			sr.Code = string(r.Err.Code)
			sr.Reason = r.Err.Error()
		}
		out[i] = sr
	}
	return &Run{
		ID:        gen.Generate(),
		Database:  dbName,
		CreatedAt: time.Now().UTC(),
		Results:   out,
	}
}

// Summarize counts the run's outcomes.
func (r *Run) Summarize() Summary {
	s := Summary{Theorems: len(r.Results)}
	for _, sr := range r.Results {
		if sr.Status == verify.StatusVerified {
			s.Verified++
		} else {
			s.Failed++
		}
	}
	return s
}

// Failed returns the failed results, in source order.
func (r *Run) Failed() []StatementResult {
	var out []StatementResult
	for _, sr := range r.Results {
		if sr.Status == verify.StatusFailed {
			out = append(out, sr)
		}
	}
	return out
}

// CanonicalMap converts the run to a map for canonical JSON serialization
// (golden snapshots and the CLI --format json path). CreatedAt is excluded:
// snapshots must be byte-identical across runs of the same database.
func (r *Run) CanonicalMap() map[string]any {
	results := make([]any, len(r.Results))
	for i, sr := range r.Results {
		m := map[string]any{
			"label":  sr.Label,
			"status": string(sr.Status),
		}
		if sr.Code != "" {
			m["code"] = sr.Code
		}
		if sr.Reason != "" {
			m["reason"] = sr.Reason
		}
		results[i] = m
	}
	s := r.Summarize()
	return map[string]any{
		"run_id":   r.ID,
		"database": r.Database,
		"results":  results,
		"summary": map[string]any{
			"theorems": s.Theorems,
			"verified": s.Verified,
			"failed":   s.Failed,
		},
	}
}
