package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcheck/mmcheck/internal/ir"
	"github.com/mmcheck/mmcheck/internal/verify"
)

func sampleResults() []verify.Result {
	return []verify.Result{
		{Label: "th1", Status: verify.StatusVerified},
		{Label: "th2", Status: verify.StatusFailed, Err: &verify.StepError{
			Code:    verify.CodeMismatch,
			Theorem: "th2",
			Step:    4,
			Ref:     "ax-mp",
			Message: "hypothesis does not match",
		}},
		{Label: "th3", Status: verify.StatusVerified},
	}
}

func TestNew_PreservesOrderAndFailureDetail(t *testing.T) {
	run := New(NewFixedGenerator("run-1"), "demo.mm", sampleResults())

	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, "demo.mm", run.Database)
	assert.False(t, run.CreatedAt.IsZero())
	require.Len(t, run.Results, 3)

	assert.Equal(t, StatementResult{Label: "th1", Status: verify.StatusVerified}, run.Results[0])
	assert.Equal(t, "th2", run.Results[1].Label)
	assert.Equal(t, string(verify.CodeMismatch), run.Results[1].Code)
	assert.NotEmpty(t, run.Results[1].Reason)
}

func TestSummarize(t *testing.T) {
	run := New(NewFixedGenerator("run-1"), "demo.mm", sampleResults())

	assert.Equal(t, Summary{Theorems: 3, Verified: 2, Failed: 1}, run.Summarize())

	failed := run.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "th2", failed[0].Label)
}

func TestCanonicalMap_Snapshot(t *testing.T) {
	run := New(NewFixedGenerator("run-1"), "demo.mm", []verify.Result{
		{Label: "th1", Status: verify.StatusVerified},
		{Label: "th2", Status: verify.StatusFailed, Err: &verify.StepError{
			Code:    verify.CodeStackUnderflow,
			Theorem: "th2",
			Step:    1,
			Ref:     "ax-mp",
			Message: "stack has 1 formulas, need 4",
		}},
	})

	out, err := ir.MarshalCanonical(run.CanonicalMap())
	require.NoError(t, err)
	assert.Equal(t, `{"database":"demo.mm","results":[`+
		`{"label":"th1","status":"verified"},`+
		`{"code":"STACK_UNDERFLOW","label":"th2","reason":"th2: step 1 (ax-mp): STACK_UNDERFLOW: stack has 1 formulas, need 4","status":"failed"}],`+
		`"run_id":"run-1","summary":{"failed":1,"theorems":2,"verified":1}}`,
		string(out))
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", gen.Generate())
	assert.Equal(t, "b", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}
