package database

import (
	"github.com/mmcheck/mmcheck/internal/ir"
	"github.com/mmcheck/mmcheck/internal/token"
)

// scopeFrame holds everything introduced since the matching ${.
//
// Frames are destroyed on $}: their hypotheses, variables and disjointness
// pairs drop out of visibility. Labels are NOT forgotten; the global label
// registry on Database outlives every frame.
type scopeFrame struct {
	vars     map[ir.Symbol]bool
	hyps     []*ir.Hypothesis // declaration order, floating and essential
	labels   map[string]*ir.Hypothesis
	floating map[ir.Symbol]*ir.Hypothesis // variable -> active $f in this frame
	disjoint []ir.DisjointPair
}

func newScopeFrame() *scopeFrame {
	return &scopeFrame{
		vars:     make(map[ir.Symbol]bool),
		labels:   make(map[string]*ir.Hypothesis),
		floating: make(map[ir.Symbol]*ir.Hypothesis),
	}
}

// scopeStack is an explicit stack of frames. The root frame is pushed at
// construction and never popped.
type scopeStack struct {
	frames []*scopeFrame
}

func newScopeStack() *scopeStack {
	return &scopeStack{frames: []*scopeFrame{newScopeFrame()}}
}

func (s *scopeStack) open() {
	s.frames = append(s.frames, newScopeFrame())
}

// close pops the innermost frame. Popping the root is the caller's error
// to report (UnbalancedScope); close only signals it.
func (s *scopeStack) close() bool {
	if len(s.frames) == 1 {
		return false
	}
	s.frames = s.frames[:len(s.frames)-1]
	return true
}

func (s *scopeStack) depth() int {
	return len(s.frames) - 1
}

func (s *scopeStack) current() *scopeFrame {
	return s.frames[len(s.frames)-1]
}

// isActiveVar reports whether v is a variable in some open frame.
func (s *scopeStack) isActiveVar(v ir.Symbol) bool {
	for _, fr := range s.frames {
		if fr.vars[v] {
			return true
		}
	}
	return false
}

// activeFloating returns the active $f hypothesis typing v, innermost first.
func (s *scopeStack) activeFloating(v ir.Symbol) *ir.Hypothesis {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if h := s.frames[i].floating[v]; h != nil {
			return h
		}
	}
	return nil
}

// activeHyps returns all visible hypotheses in declaration order.
// Frames are nested, so outer-to-inner concatenation preserves it.
func (s *scopeStack) activeHyps() []*ir.Hypothesis {
	var out []*ir.Hypothesis
	for _, fr := range s.frames {
		out = append(out, fr.hyps...)
	}
	return out
}

// activeDisjoint returns the union of disjointness pairs over all open
// frames, outermost first.
func (s *scopeStack) activeDisjoint() []ir.DisjointPair {
	var out []ir.DisjointPair
	for _, fr := range s.frames {
		out = append(out, fr.disjoint...)
	}
	return out
}

// snapshot freezes the current visibility into a Frame for later read-only
// use during proof verification.
func (s *scopeStack) snapshot() *Frame {
	hyps := make(map[string]*ir.Hypothesis)
	for _, fr := range s.frames {
		for label, h := range fr.labels {
			hyps[label] = h
		}
	}
	return &Frame{
		Hyps:     hyps,
		Disjoint: s.activeDisjoint(),
	}
}

// Frame is the immutable visibility snapshot taken at a theorem's position:
// every hypothesis label a proof step may reference, and every active
// disjointness pair the verifier must enforce on substitutions.
type Frame struct {
	Hyps     map[string]*ir.Hypothesis
	Disjoint []ir.DisjointPair
}

// HasDisjoint reports whether an active $d covers the unordered pair (a, b).
func (f *Frame) HasDisjoint(a, b ir.Symbol) bool {
	p := ir.NewDisjointPair(a, b)
	for _, d := range f.Disjoint {
		if d == p {
			return true
		}
	}
	return false
}

// Statement is one $a or $p declaration in source order.
type Statement struct {
	Assertion *ir.Assertion
	Pos       token.Pos
	Frame     *Frame // nil for axioms; axioms are never replayed
}
