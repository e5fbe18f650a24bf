package verify

import "fmt"

// Code categorizes semantic verification failures. Semantic failures are
// fatal only to the statement being verified, never to the run.
type Code string

const (
	// CodeStackUnderflow means a step needed more operands than the
	// stack held.
	CodeStackUnderflow Code = "STACK_UNDERFLOW"

	// CodeMismatch means a popped formula did not unify with the
	// corresponding mandatory hypothesis.
	CodeMismatch Code = "MISMATCH"

	// CodeInconsistentSubstitution means two occurrences of a variable
	// demanded different substituted formulas in one proof step.
	CodeInconsistentSubstitution Code = "INCONSISTENT_SUBSTITUTION"

	// CodeDisjointViolation means a substitution broke a $d restriction.
	CodeDisjointViolation Code = "DISJOINT_VIOLATION"

	// CodeMalformedProof means the proof bytes could not be decoded:
	// bad compressed digits, an out-of-range backreference, or an
	// incomplete ("?") proof.
	CodeMalformedProof Code = "MALFORMED_PROOF"

	// CodeStackShapeMismatch means the machine terminated with anything
	// other than exactly the declared conclusion on the stack.
	CodeStackShapeMismatch Code = "STACK_SHAPE_MISMATCH"
)

// StepError is a semantic verification failure, located by theorem,
// step index (0-based) and the referenced label where applicable.
type StepError struct {
	Code    Code
	Theorem string
	Step    int    // -1 when the failure is not tied to a single step
	Ref     string // label or backreference the failing step resolved to
	Message string
}

func (e *StepError) Error() string {
	if e.Step >= 0 && e.Ref != "" {
		return fmt.Sprintf("%s: step %d (%s): %s: %s", e.Theorem, e.Step, e.Ref, e.Code, e.Message)
	}
	if e.Step >= 0 {
		return fmt.Sprintf("%s: step %d: %s: %s", e.Theorem, e.Step, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Theorem, e.Code, e.Message)
}

func stepErrorf(code Code, theorem string, step int, ref, format string, args ...any) *StepError {
	return &StepError{
		Code:    code,
		Theorem: theorem,
		Step:    step,
		Ref:     ref,
		Message: fmt.Sprintf(format, args...),
	}
}
