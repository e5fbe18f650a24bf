package ir

import "strings"

// Formula is an ordered sequence of symbols, always beginning with a
// type code constant. Formulas are immutable once constructed and are
// compared by structural equality only.
type Formula []Symbol

// Equal reports structural equality.
func (f Formula) Equal(other Formula) bool {
	if len(f) != len(other) {
		return false
	}
	for i := range f {
		if f[i] != other[i] {
			return false
		}
	}
	return true
}

// String joins the symbols with single spaces. This is the form used in
// diagnostics and in canonical report snapshots.
func (f Formula) String() string {
	sb := make([]string, len(f))
	for i, s := range f {
		sb[i] = string(s)
	}
	return strings.Join(sb, " ")
}

// Clone returns an independent copy. Callers that assemble formulas from
// shared backing arrays (stack splices) use this to preserve immutability.
func (f Formula) Clone() Formula {
	out := make(Formula, len(f))
	copy(out, f)
	return out
}

// Vars returns the variables of the formula in first-occurrence order.
// The caller supplies the variable predicate; formulas do not know
// symbol kinds.
func (f Formula) Vars(isVar func(Symbol) bool) []Symbol {
	var out []Symbol
	seen := make(map[Symbol]bool)
	for _, s := range f {
		if isVar(s) && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// ContainsVar reports whether v occurs in the formula.
func (f Formula) ContainsVar(v Symbol) bool {
	for _, s := range f {
		if s == v {
			return true
		}
	}
	return false
}
