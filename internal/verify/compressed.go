package verify

import (
	"github.com/mmcheck/mmcheck/internal/ir"
)

// runCompressed decodes and executes a packed proof.
//
// The digit stream encodes integers in a mixed-radix scheme: 'U'..'Y' are
// leading base-5 digits, 'A'..'T' is the final base-20 digit. Integer i
// resolves, in order, to the theorem's i-th mandatory hypothesis, then to
// the parenthesized reference labels, then to Z-tagged subproof results,
// which are pushed back verbatim. 'Z' tags the formula produced by the
// previous step.
func (m *machine) runCompressed(p *ir.Proof) *StepError {
	label := m.stmt.Assertion.Label
	mand := m.stmt.Assertion.Mandatory
	numMand := len(mand)
	numRefs := len(p.Refs)

	num := 0
	step := 0
	stepped := false
	for ci := 0; ci < len(p.Blob); ci++ {
		c := p.Blob[ci]
		switch {
		case c >= 'U' && c <= 'Y':
			num = num*5 + int(c-'U') + 1
		case c >= 'A' && c <= 'T':
			num = num*20 + int(c-'A') + 1
			if err := m.compressedStep(p, num, numMand, numRefs, step); err != nil {
				return err
			}
			num = 0
			step++
			stepped = true
		case c == 'Z':
			if num != 0 {
				return stepErrorf(CodeMalformedProof, label, step, "",
					"Z marker inside a compressed number")
			}
			if !stepped || len(m.stack) == 0 {
				return stepErrorf(CodeMalformedProof, label, step, "",
					"Z marker with no preceding step")
			}
			m.saved = append(m.saved, m.stack[len(m.stack)-1])
		case c == '?':
			return stepErrorf(CodeMalformedProof, label, step, "", "proof is incomplete")
		default:
			return stepErrorf(CodeMalformedProof, label, step, "",
				"invalid character %q in compressed proof", c)
		}
	}
	if num != 0 {
		return stepErrorf(CodeMalformedProof, label, step, "",
			"compressed proof ends inside a number")
	}
	return nil
}

// compressedStep dispatches one decoded integer.
func (m *machine) compressedStep(p *ir.Proof, num, numMand, numRefs, step int) *StepError {
	switch {
	case num <= numMand:
		m.push(m.stmt.Assertion.Mandatory[num-1].Formula)
		return nil
	case num <= numMand+numRefs:
		return m.step(p.Refs[num-numMand-1], step)
	case num <= numMand+numRefs+len(m.saved):
		m.push(m.saved[num-numMand-numRefs-1])
		return nil
	default:
		return stepErrorf(CodeMalformedProof, m.stmt.Assertion.Label, step, "",
			"backreference %d out of range (%d hypotheses, %d labels, %d saved)",
			num, numMand, numRefs, len(m.saved))
	}
}
