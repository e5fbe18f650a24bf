// Package ir provides the foundational Metamath data model for mmcheck.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This ensures ir remains the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Formulas are immutable after construction; nothing mutates a Formula
//     that has been handed to a Database or pushed on a proof stack
//   - Structural equality only; formulas have no identity beyond their symbols
//   - Disjoint pairs are stored normalized (A < B) so set membership is
//     a plain comparison
package ir
