package verify

import (
	"github.com/mmcheck/mmcheck/internal/ir"
)

// Substitution maps variables to the formulas substituted for them in one
// proof step. A substitution is computed once per step and applied
// simultaneously; it is never reapplied to its own results.
type Substitution map[ir.Symbol]ir.Formula

// Apply replaces each occurrence of a bound variable in f with its mapped
// formula, concatenated in place. Unbound variables pass through untouched
// (this never happens for a well-formed proof step, since every mandatory
// variable is bound by a mandatory floating hypothesis).
func (s Substitution) Apply(f ir.Formula, isVar func(ir.Symbol) bool) ir.Formula {
	out := make(ir.Formula, 0, len(f))
	for _, sym := range f {
		if isVar(sym) {
			if repl, ok := s[sym]; ok {
				out = append(out, repl...)
				continue
			}
		}
		out = append(out, sym)
	}
	return out
}

// bind records v -> f, failing when v is already bound to something else.
func (s Substitution) bind(v ir.Symbol, f ir.Formula, theorem string, step int, ref string) *StepError {
	if prev, ok := s[v]; ok {
		if !prev.Equal(f) {
			return stepErrorf(CodeInconsistentSubstitution, theorem, step, ref,
				"variable %q bound to %q but now requires %q", v, prev, f)
		}
		return nil
	}
	s[v] = f
	return nil
}

// infer unifies one mandatory hypothesis against a popped stack entry,
// extending the accumulated substitution.
//
// Floating hypotheses bind: the popped formula must open with the
// hypothesis typecode, and the remainder becomes the variable's mapping.
// Essential hypotheses check: applying the substitution so far must
// reproduce the popped formula token for token; the first diverging
// position is reported on mismatch.
func infer(sub Substitution, hyp *ir.Hypothesis, popped ir.Formula,
	isVar func(ir.Symbol) bool, theorem string, step int, ref string) *StepError {

	if hyp.Kind == ir.HypFloating {
		if len(popped) == 0 || popped[0] != hyp.Typecode() {
			return stepErrorf(CodeMismatch, theorem, step, ref,
				"hypothesis %q expects typecode %q, stack entry is %q",
				hyp.Label, hyp.Typecode(), popped)
		}
		return sub.bind(hyp.Variable(), popped[1:].Clone(), theorem, step, ref)
	}

	want := sub.Apply(hyp.Formula, isVar)
	for i := 0; i < len(want) && i < len(popped); i++ {
		if want[i] != popped[i] {
			return stepErrorf(CodeMismatch, theorem, step, ref,
				"hypothesis %q diverges at token %d: substituted form is %q, stack entry is %q",
				hyp.Label, i, want, popped)
		}
	}
	if len(want) != len(popped) {
		return stepErrorf(CodeMismatch, theorem, step, ref,
			"hypothesis %q diverges at token %d: substituted form is %q, stack entry is %q",
			hyp.Label, min(len(want), len(popped)), want, popped)
	}
	return nil
}
