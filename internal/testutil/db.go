// Package testutil provides helpers for building databases in tests.
package testutil

import (
	"testing"

	"github.com/mmcheck/mmcheck/internal/database"
	"github.com/mmcheck/mmcheck/internal/verify"
)

// MustLoad loads an inline .mm source, failing the test on any error.
func MustLoad(t *testing.T, src string) *database.Database {
	t.Helper()
	db, err := database.Load("test.mm", []byte(src))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return db
}

// Theorem finds the named $p statement, failing the test if absent.
func Theorem(t *testing.T, db *database.Database, label string) *database.Statement {
	t.Helper()
	for _, st := range db.Theorems() {
		if st.Assertion.Label == label {
			return st
		}
	}
	t.Fatalf("theorem %q not found", label)
	return nil
}

// ResultMap indexes verification results by label.
func ResultMap(results []verify.Result) map[string]verify.Result {
	out := make(map[string]verify.Result, len(results))
	for _, r := range results {
		out[r.Label] = r
	}
	return out
}
