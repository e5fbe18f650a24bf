package verify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcheck/mmcheck/internal/testutil"
	"github.com/mmcheck/mmcheck/internal/verify"
)

const theory = `
$c wff |- ( ) -> $.
$v p q r s $.
wp $f wff p $.
wq $f wff q $.
wr $f wff r $.
ws $f wff s $.
wi $a wff ( p -> q ) $.
ax-1 $a |- ( p -> ( q -> p ) ) $.
${
  min $e |- p $.
  maj $e |- ( p -> q ) $.
  ax-mp $a |- q $.
$}
${
  $d p q $.
  ax-d $a |- ( p -> q ) $.
$}
`

func verifyOne(t *testing.T, src, label string) verify.Result {
	t.Helper()
	db := testutil.MustLoad(t, src)
	return verify.Verify(db, testutil.Theorem(t, db, label))
}

func requireVerified(t *testing.T, r verify.Result) {
	t.Helper()
	require.Equal(t, verify.StatusVerified, r.Status, "want verified, got: %v", r.Err)
	require.Nil(t, r.Err)
}

func requireFailed(t *testing.T, r verify.Result, code verify.Code) {
	t.Helper()
	require.Equal(t, verify.StatusFailed, r.Status)
	require.NotNil(t, r.Err)
	assert.Equal(t, code, r.Err.Code, "got error: %v", r.Err)
}

func TestVerify_SimpleSubstitution(t *testing.T) {
	// th1 is ax-1 with p and q swapped.
	r := verifyOne(t, theory+
		"th1 $p |- ( q -> ( p -> q ) ) $= wq wp ax-1 $.\n", "th1")
	requireVerified(t, r)
}

// th2 derives |- ( r -> ( p -> ( q -> p ) ) ) by modus ponens from two
// ax-1 instances. Exercises essential hypothesis unification.
const th2 = "th2 $p |- ( r -> ( p -> ( q -> p ) ) ) $= " +
	"wp wq wp wi wi wr wp wq wp wi wi wi wp wq ax-1 wp wq wp wi wi wr ax-1 ax-mp $.\n"

func TestVerify_ModusPonens(t *testing.T) {
	r := verifyOne(t, theory+th2, "th2")
	requireVerified(t, r)
}

func TestVerify_EssentialHypothesisInScope(t *testing.T) {
	src := theory + `
${
  hyp $e |- p $.
  th3 $p |- ( q -> p ) $= wp wq wp ax-1 hyp ax-mp $.
$}
`
	// hyp gives |- p; ax-1 gives |- ( p -> ( q -> p ) ); ax-mp concludes.
	r := verifyOne(t, src, "th3")
	requireVerified(t, r)
}

func TestVerify_Mismatch(t *testing.T) {
	// min faces "wff p" where it needs "|- p".
	r := verifyOne(t, theory+
		"bad $p |- q $= wp wq wp wq ax-mp $.\n", "bad")
	requireFailed(t, r, verify.CodeMismatch)
	assert.Equal(t, 4, r.Err.Step)
	assert.Equal(t, "ax-mp", r.Err.Ref)
}

func TestVerify_StackUnderflow(t *testing.T) {
	r := verifyOne(t, theory+
		"bad $p |- q $= wq ax-mp $.\n", "bad")
	requireFailed(t, r, verify.CodeStackUnderflow)
}

func TestVerify_StackShape(t *testing.T) {
	t.Run("two formulas left", func(t *testing.T) {
		// Top of stack matches the conclusion; the leftover below still fails it.
		r := verifyOne(t, theory+"bad $p wff p $= wp wp $.\n", "bad")
		requireFailed(t, r, verify.CodeStackShapeMismatch)
		assert.Contains(t, r.Err.Message, "2 formulas")
	})
	t.Run("wrong conclusion", func(t *testing.T) {
		r := verifyOne(t, theory+"bad $p wff ( p -> q ) $= wp $.\n", "bad")
		requireFailed(t, r, verify.CodeStackShapeMismatch)
	})
	t.Run("empty proof", func(t *testing.T) {
		r := verifyOne(t, theory+"bad $p wff p $= $.\n", "bad")
		requireFailed(t, r, verify.CodeStackShapeMismatch)
	})
}

func TestVerify_IncompleteProof(t *testing.T) {
	r := verifyOne(t, theory+"bad $p wff p $= ? $.\n", "bad")
	requireFailed(t, r, verify.CodeMalformedProof)
}

func TestVerify_DisjointViolation(t *testing.T) {
	t.Run("shared variable", func(t *testing.T) {
		// ax-d requires p and q disjoint; both map to formulas containing r.
		r := verifyOne(t, theory+
			"bad $p |- ( r -> r ) $= wr wr ax-d $.\n", "bad")
		requireFailed(t, r, verify.CodeDisjointViolation)
	})
	t.Run("missing $d at use site", func(t *testing.T) {
		r := verifyOne(t, theory+
			"bad $p |- ( r -> s ) $= wr ws ax-d $.\n", "bad")
		requireFailed(t, r, verify.CodeDisjointViolation)
	})
	t.Run("satisfied by active $d", func(t *testing.T) {
		src := theory + `
${
  $d r s $.
  ok $p |- ( r -> s ) $= wr ws ax-d $.
$}
`
		r := verifyOne(t, src, "ok")
		requireVerified(t, r)
	})
}

func TestVerify_AxiomWithNoHypotheses(t *testing.T) {
	src := `
$c |- X $.
axX $a |- X $.
th $p |- X $= axX $.
bad $p |- X X $= axX $.
`
	db := testutil.MustLoad(t, src)
	results, err := verify.All(context.Background(), db, verify.Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	requireVerified(t, results[0])
	requireFailed(t, results[1], verify.CodeStackShapeMismatch)
}

func TestAll_NoTheorems(t *testing.T) {
	db := testutil.MustLoad(t, theory)
	results, err := verify.All(context.Background(), db, verify.Options{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAll_Idempotent(t *testing.T) {
	db := testutil.MustLoad(t, theory+th2+"bad $p |- q $= wq ax-mp $.\n")
	first, err := verify.All(context.Background(), db, verify.Options{})
	require.NoError(t, err)
	second, err := verify.All(context.Background(), db, verify.Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAll_ParallelMatchesSequential(t *testing.T) {
	db := testutil.MustLoad(t, theory+th2+
		"bad1 $p |- q $= wq ax-mp $.\n"+
		"th4 $p |- ( s -> ( p -> s ) ) $= wp ws ax-1 $.\n"+
		"bad2 $p |- ( r -> r ) $= wr wr ax-d $.\n")

	seq, err := verify.All(context.Background(), db, verify.Options{Jobs: 1})
	require.NoError(t, err)
	par, err := verify.All(context.Background(), db, verify.Options{Jobs: 4})
	require.NoError(t, err)
	assert.Equal(t, seq, par)

	byLabel := testutil.ResultMap(seq)
	assert.Len(t, byLabel, 4)
	assert.Equal(t, verify.StatusVerified, byLabel["th2"].Status)
	assert.Equal(t, verify.StatusFailed, byLabel["bad1"].Status)

	var labels []string
	for _, r := range seq {
		labels = append(labels, r.Label)
	}
	assert.Equal(t, []string{"th2", "bad1", "th4", "bad2"}, labels)
}

func TestAll_FailFast(t *testing.T) {
	src := theory + th2 +
		"bad1 $p |- q $= wq ax-mp $.\n" +
		"th4 $p |- ( s -> ( p -> s ) ) $= wp ws ax-1 $.\n"
	db := testutil.MustLoad(t, src)

	for _, jobs := range []int{1, 4} {
		results, err := verify.All(context.Background(), db, verify.Options{Jobs: jobs, FailFast: true})
		require.NoError(t, err)
		require.Len(t, results, 2, "jobs=%d", jobs)
		assert.Equal(t, "th2", results[0].Label)
		assert.Equal(t, verify.StatusVerified, results[0].Status)
		assert.Equal(t, "bad1", results[1].Label)
		assert.Equal(t, verify.StatusFailed, results[1].Status)
	}
}

func TestAll_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	db := testutil.MustLoad(t, theory+th2)
	_, err := verify.All(ctx, db, verify.Options{Jobs: 2})
	assert.Error(t, err)
}
