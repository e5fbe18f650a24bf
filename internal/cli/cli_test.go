package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcheck/mmcheck/internal/report"
	"github.com/mmcheck/mmcheck/internal/verify"
)

const goodSource = `
$c |- X $.
axX $a |- X $.
th $p |- X $= axX $.
`

const failingSource = goodSource + `
bad $p |- X X $= axX $.
`

func writeDatabase(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.mm")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRoot_RejectsInvalidFormat(t *testing.T) {
	path := writeDatabase(t, goodSource)
	_, err := execute(t, "--format", "xml", "check", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestCheck_Text(t *testing.T) {
	path := writeDatabase(t, goodSource)
	out, err := execute(t, "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok: "+path)
	assert.Contains(t, out, "(2 statements, 1 theorems)")
}

func TestCheck_JSON(t *testing.T) {
	path := writeDatabase(t, goodSource)
	out, err := execute(t, "--format", "json", "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"statements":2`)
	assert.Contains(t, out, `"theorems":1`)
}

func TestCheck_StructuralErrorExitsWithCommandError(t *testing.T) {
	path := writeDatabase(t, "$c wff $.\n$}")
	_, err := execute(t, "check", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "UNBALANCED_SCOPE")
}

func TestCheck_MissingFile(t *testing.T) {
	_, err := execute(t, "check", filepath.Join(t.TempDir(), "missing.mm"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestVerify_AllProofsPass(t *testing.T) {
	path := writeDatabase(t, goodSource)
	out, err := execute(t, "verify", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 theorems, 1 verified, 0 failed")
	assert.NotContains(t, out, "FAIL")
}

func TestVerify_FailuresExitNonZero(t *testing.T) {
	path := writeDatabase(t, failingSource)
	out, err := execute(t, "verify", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAIL bad:")
	assert.Contains(t, out, "2 theorems, 1 verified, 1 failed")
}

func TestVerify_JSONReport(t *testing.T) {
	path := writeDatabase(t, goodSource)

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(&buf)

	opts := &VerifyOptions{
		RootOptions: &RootOptions{Format: "json"},
		Jobs:        1,
		RunIDs:      report.NewFixedGenerator("run-test"),
	}
	require.NoError(t, runVerify(cmd, opts, path))

	out := buf.String()
	assert.Contains(t, out, `"run_id":"run-test"`)
	assert.Contains(t, out, `"summary":{"failed":0,"theorems":1,"verified":1}`)
}

func TestVerify_RecordsRunInHistory(t *testing.T) {
	path := writeDatabase(t, failingSource)
	histPath := filepath.Join(t.TempDir(), "history.db")

	_, err := execute(t, "verify", "--db", histPath, "--jobs", "1", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	st, err := report.Open(histPath)
	require.NoError(t, err)
	defer st.Close()
	runs, err := st.ListRuns(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, report.Summary{Theorems: 2, Verified: 1, Failed: 1}, runs[0].Summary)
}

func seedHistory(t *testing.T) string {
	t.Helper()
	histPath := filepath.Join(t.TempDir(), "history.db")
	st, err := report.Open(histPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	from := report.New(report.NewFixedGenerator("run-from"), "demo.mm", []verify.Result{
		{Label: "th", Status: verify.StatusFailed, Err: &verify.StepError{
			Code: verify.CodeMismatch, Theorem: "th", Step: 0, Message: "x"}},
	})
	to := report.New(report.NewFixedGenerator("run-to"), "demo.mm", []verify.Result{
		{Label: "th", Status: verify.StatusVerified},
	})
	require.NoError(t, st.SaveRun(ctx, from))
	require.NoError(t, st.SaveRun(ctx, to))
	return histPath
}

func TestHistory_List(t *testing.T) {
	histPath := seedHistory(t)
	out, err := execute(t, "history", "list", "--db", histPath)
	require.NoError(t, err)
	assert.Contains(t, out, "run-from")
	assert.Contains(t, out, "run-to")
	assert.Contains(t, out, "0/1 verified, 1 failed")
	assert.Contains(t, out, "1/1 verified, 0 failed")
}

func TestHistory_ListRequiresDB(t *testing.T) {
	_, err := execute(t, "history", "list")
	require.Error(t, err)
}

func TestHistory_Diff(t *testing.T) {
	histPath := seedHistory(t)

	out, err := execute(t, "history", "diff", "--db", histPath, "run-from", "run-to")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "th: failed -> verified")

	out, err = execute(t, "history", "diff", "--db", histPath, "run-from", "run-from")
	require.NoError(t, err)
	assert.Contains(t, out, "runs agree")
}

func TestHistory_DiffUnknownRun(t *testing.T) {
	histPath := seedHistory(t)
	_, err := execute(t, "history", "diff", "--db", histPath, "run-from", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExitError(t *testing.T) {
	err := WrapExitError(ExitCommandError, "failed to load", os.ErrNotExist)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, ExitFailure, GetExitCode(os.ErrNotExist))
	assert.Equal(t, "boom", NewExitError(ExitFailure, "boom").Error())
}
