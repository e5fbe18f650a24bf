// Package report turns verification results into run reports and keeps a
// history of runs in SQLite.
//
// The history store exists for cross-run consensus checking: CI records
// each run's per-statement outcomes and diffs them against earlier runs
// of the same database, surfacing regressions (verified -> failed) and
// fixes. The verification engine itself never touches the store.
package report
