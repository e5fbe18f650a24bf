// Package database loads a Metamath source file into an in-memory,
// scope-aware statement store.
//
// Load is a single forward pass: the tokenizer feeds a recursive-descent
// statement reader that maintains an explicit stack of scope frames.
// Structural problems (bad syntax, duplicate or unknown labels, unbalanced
// scopes) abort the load immediately with position context. Proof bytes
// are parsed and their labels resolved against the statement's visible
// frame, but proofs are not replayed here; that is package verify's job.
//
// After Load returns, the Database is immutable. Each theorem carries a
// Frame snapshot of everything visible at its declaration point, so proof
// verification of distinct theorems can proceed concurrently with no
// locking.
package database
