package ir

// Symbol is an atomic math token: a constant or a variable.
type Symbol string

// SymbolKind classifies a declared symbol.
type SymbolKind int

const (
	// SymConstant is a symbol declared with $c.
	SymConstant SymbolKind = iota
	// SymVariable is a symbol declared with $v.
	SymVariable
)

func (k SymbolKind) String() string {
	switch k {
	case SymConstant:
		return "constant"
	case SymVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// HypKind distinguishes floating ($f) from essential ($e) hypotheses.
type HypKind int

const (
	// HypFloating binds one variable to a type code ($f).
	HypFloating HypKind = iota
	// HypEssential asserts that a formula must hold ($e).
	HypEssential
)

func (k HypKind) String() string {
	switch k {
	case HypFloating:
		return "floating"
	case HypEssential:
		return "essential"
	default:
		return "unknown"
	}
}

// Hypothesis is a labeled $f or $e statement.
//
// For floating hypotheses the formula is exactly [typecode, variable].
// The label is globally unique for the lifetime of the database, even after
// the owning scope closes.
type Hypothesis struct {
	Label   string
	Kind    HypKind
	Formula Formula
}

// Variable returns the bound variable of a floating hypothesis.
// Must not be called on essential hypotheses.
func (h *Hypothesis) Variable() Symbol {
	return h.Formula[1]
}

// Typecode returns the leading type code of the hypothesis formula.
func (h *Hypothesis) Typecode() Symbol {
	return h.Formula[0]
}

// AssertionKind distinguishes axioms ($a) from provable theorems ($p).
type AssertionKind int

const (
	// KindAxiom is an assertion accepted without proof ($a).
	KindAxiom AssertionKind = iota
	// KindTheorem is an assertion that carries a proof ($p).
	KindTheorem
)

func (k AssertionKind) String() string {
	switch k {
	case KindAxiom:
		return "axiom"
	case KindTheorem:
		return "theorem"
	default:
		return "unknown"
	}
}

// Assertion is a labeled $a or $p statement together with the frame
// computed at its declaration point.
//
// Mandatory holds the mandatory hypotheses in declaration order: every
// essential hypothesis active at the declaration, plus every active floating
// hypothesis whose variable occurs in the conclusion or in an active
// essential hypothesis. Positional unification against a referencing proof
// step depends on this order never changing.
//
// Disjoint holds the active disjointness pairs restricted to mandatory
// variables. Seq is the global declaration index; a proof may only reference
// assertions with a strictly smaller Seq.
type Assertion struct {
	Label      string
	Kind       AssertionKind
	Conclusion Formula
	Mandatory  []*Hypothesis
	Disjoint   []DisjointPair
	Proof      *Proof // nil for axioms
	Seq        int
}

// DisjointPair is an unordered pair of variables under a $d restriction,
// stored with A < B. Use NewDisjointPair to construct.
type DisjointPair struct {
	A, B Symbol
}

// NewDisjointPair normalizes the pair so that A < B.
func NewDisjointPair(a, b Symbol) DisjointPair {
	if b < a {
		a, b = b, a
	}
	return DisjointPair{A: a, B: b}
}

// Proof is the proof of a theorem, in either encoding.
//
// Uncompressed proofs carry the label sequence in Labels. Compressed proofs
// set Packed, carry the parenthesized label list in Refs and the packed
// uppercase-letter digit stream in Blob. The "?" placeholder for an
// incomplete proof survives loading and fails verification.
type Proof struct {
	Labels []string

	Packed bool
	Refs   []string
	Blob   string
}

// Empty reports whether the proof has no steps at all.
func (p *Proof) Empty() bool {
	if p == nil {
		return true
	}
	if p.Packed {
		return p.Blob == ""
	}
	return len(p.Labels) == 0
}
