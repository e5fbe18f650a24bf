package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/mmcheck/mmcheck/internal/database"
	"github.com/mmcheck/mmcheck/internal/ir"
	"github.com/mmcheck/mmcheck/internal/report"
	"github.com/mmcheck/mmcheck/internal/verify"
)

// VerifyWithGolden loads and verifies source, renders the run report as
// canonical JSON, and compares it against testdata/<name>.golden.
//
// The run ID is fixed so that snapshots are byte-identical across runs.
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func VerifyWithGolden(t *testing.T, name, source string) {
	t.Helper()

	db, err := database.Load(name+".mm", []byte(source))
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	results, err := verify.All(context.Background(), db, verify.Options{})
	if err != nil {
		t.Fatalf("verify %s: %v", name, err)
	}

	run := report.New(report.NewFixedGenerator("run-"+name), db.Name, results)
	snapshot, err := ir.MarshalCanonical(run.CanonicalMap())
	if err != nil {
		t.Fatalf("marshal snapshot for %s: %v", name, err)
	}

	g := goldie.New(t)
	g.Assert(t, name, snapshot)
}
