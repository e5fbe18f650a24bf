package verify

import (
	"github.com/mmcheck/mmcheck/internal/database"
	"github.com/mmcheck/mmcheck/internal/ir"
)

// machine is the proof stack machine for one theorem. State is an operand
// stack of formulas plus, for compressed proofs, the Z-tagged subproof
// results.
type machine struct {
	db    *database.Database
	stmt  *database.Statement
	stack []ir.Formula
	saved []ir.Formula
}

func newMachine(db *database.Database, stmt *database.Statement) *machine {
	return &machine{db: db, stmt: stmt}
}

func (m *machine) isVar(s ir.Symbol) bool {
	return m.db.IsVariable(s)
}

func (m *machine) push(f ir.Formula) {
	m.stack = append(m.stack, f)
}

// applyAssertion pops the assertion's mandatory hypothesis count off the
// stack, computes the combined substitution, checks the assertion's
// disjointness restrictions against the running theorem's frame, and
// pushes the substituted conclusion.
func (m *machine) applyAssertion(a *ir.Assertion, step int) *StepError {
	label := m.stmt.Assertion.Label
	n := len(a.Mandatory)
	if len(m.stack) < n {
		return stepErrorf(CodeStackUnderflow, label, step, a.Label,
			"assertion %q needs %d hypotheses, stack holds %d", a.Label, n, len(m.stack))
	}
	popped := m.stack[len(m.stack)-n:]

	sub := make(Substitution, n)
	// Floating hypotheses bind first; essential hypotheses then check
	// against the fully accumulated substitution. Mandatory order fixes
	// which popped entry faces which hypothesis.
	for i, h := range a.Mandatory {
		if h.Kind != ir.HypFloating {
			continue
		}
		if err := infer(sub, h, popped[i], m.isVar, label, step, a.Label); err != nil {
			return err
		}
	}
	for i, h := range a.Mandatory {
		if h.Kind != ir.HypEssential {
			continue
		}
		if err := infer(sub, h, popped[i], m.isVar, label, step, a.Label); err != nil {
			return err
		}
	}

	if err := m.checkDisjoint(a, sub, step); err != nil {
		return err
	}

	concl := sub.Apply(a.Conclusion, m.isVar)
	m.stack = m.stack[:len(m.stack)-n]
	m.push(concl)
	return nil
}

// checkDisjoint verifies every $d restriction of the applied assertion
// under the chosen substitution: the substituted formulas must share no
// variable, and each cross pair must itself be disjoint in the running
// theorem's frame.
func (m *machine) checkDisjoint(a *ir.Assertion, sub Substitution, step int) *StepError {
	label := m.stmt.Assertion.Label
	for _, d := range a.Disjoint {
		fa, oka := sub[d.A]
		fb, okb := sub[d.B]
		if !oka || !okb {
			// Mandatory variables are always bound; an unbound side means
			// the pair is vacuous for this application.
			continue
		}
		for _, x := range fa.Vars(m.isVar) {
			for _, y := range fb.Vars(m.isVar) {
				if x == y {
					return stepErrorf(CodeDisjointViolation, label, step, a.Label,
						"disjoint variables %q and %q both map to formulas containing %q",
						d.A, d.B, x)
				}
				if !m.stmt.Frame.HasDisjoint(x, y) {
					return stepErrorf(CodeDisjointViolation, label, step, a.Label,
						"substitution for disjoint pair (%q, %q) requires $d %s %s, which is not active",
						d.A, d.B, x, y)
				}
			}
		}
	}
	return nil
}

// step executes one resolved proof step: push a hypothesis formula or
// apply a prior assertion.
func (m *machine) step(label string, step int) *StepError {
	if h, ok := m.stmt.Frame.Hyps[label]; ok {
		m.push(h.Formula)
		return nil
	}
	a, ok := m.db.Assertion(label)
	if !ok || a.Seq >= m.stmt.Assertion.Seq {
		// Load-time validation makes this unreachable for well-formed
		// databases; kept as a decoding guard.
		return stepErrorf(CodeMalformedProof, m.stmt.Assertion.Label, step, label,
			"proof step references unavailable label %q", label)
	}
	return m.applyAssertion(a, step)
}

// finish enforces the termination condition: exactly one formula on the
// stack, structurally equal to the declared conclusion.
func (m *machine) finish() *StepError {
	label := m.stmt.Assertion.Label
	if len(m.stack) != 1 {
		return stepErrorf(CodeStackShapeMismatch, label, -1, "",
			"proof leaves %d formulas on the stack, want exactly 1", len(m.stack))
	}
	want := m.stmt.Assertion.Conclusion
	if got := m.stack[0]; !got.Equal(want) {
		return stepErrorf(CodeStackShapeMismatch, label, -1, "",
			"proof concludes %q, statement declares %q", got, want)
	}
	return nil
}
