package database

import (
	"github.com/mmcheck/mmcheck/internal/ir"
	"github.com/mmcheck/mmcheck/internal/token"
)

// Database is the loaded, immutable statement store.
//
// All mutation happens inside Load; afterwards every accessor is read-only
// and safe for concurrent use by verification workers.
type Database struct {
	// Name is the source name passed to Load (usually the file path).
	Name string

	// Statements holds every $a and $p in declaration order.
	Statements []*Statement

	assertions map[string]*ir.Assertion
	labels     map[string]token.Pos
	symbols    map[ir.Symbol]ir.SymbolKind
}

func newDatabase(name string) *Database {
	return &Database{
		Name:       name,
		assertions: make(map[string]*ir.Assertion),
		labels:     make(map[string]token.Pos),
		symbols:    make(map[ir.Symbol]ir.SymbolKind),
	}
}

// Assertion resolves a declared $a or $p label.
func (db *Database) Assertion(label string) (*ir.Assertion, bool) {
	a, ok := db.assertions[label]
	return a, ok
}

// Kind returns the declared kind of a math symbol. Variables keep their
// kind recorded even after their scope closes.
func (db *Database) Kind(sym ir.Symbol) (ir.SymbolKind, bool) {
	k, ok := db.symbols[sym]
	return k, ok
}

// IsVariable reports whether sym was ever declared as a variable.
// Used by the verifier to compute free variables of substituted formulas.
func (db *Database) IsVariable(sym ir.Symbol) bool {
	k, ok := db.symbols[sym]
	return ok && k == ir.SymVariable
}

// Theorems returns the $p statements in declaration order.
func (db *Database) Theorems() []*Statement {
	var out []*Statement
	for _, st := range db.Statements {
		if st.Assertion.Kind == ir.KindTheorem {
			out = append(out, st)
		}
	}
	return out
}

// reserveLabel records a label in the permanent registry.
func (db *Database) reserveLabel(label string, pos token.Pos) *LoadError {
	if prev, ok := db.labels[label]; ok {
		return loadErrorf(CodeDuplicateLabel, pos,
			"label %q already declared at %s", label, prev)
	}
	db.labels[label] = pos
	return nil
}
