// Package verify replays theorem proofs against a loaded database.
//
// Verification of one theorem is a pure function of the database snapshot
// at the theorem's position and the proof bytes: a stack machine pushes
// hypothesis formulas and applies prior assertions under computed
// substitutions until exactly the declared conclusion remains. Failures
// are captured per theorem and never abort the run; a failed theorem's
// result explains which step and hypothesis diverged.
//
// Because every theorem carries an immutable frame snapshot, All can
// replay distinct proofs concurrently with no locking, while reporting
// results in source order.
package verify
