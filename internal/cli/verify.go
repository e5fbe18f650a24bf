package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmcheck/mmcheck/internal/report"
	"github.com/mmcheck/mmcheck/internal/verify"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Jobs     int
	FailFast bool
	Database string // history store path, empty = don't record

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs report.RunIDGenerator
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <file.mm>",
		Short: "Verify every proof in a Metamath database",
		Long: `Load a Metamath database and replay every $p statement's proof.

Structural problems (bad syntax, duplicate labels, unbalanced scopes) abort
the load with a positioned error and exit code 2. Proof failures are
reported per statement and produce exit code 1; the remaining statements
are still verified.

Example:
  mmcheck verify set.mm
  mmcheck verify --jobs 8 --db ./history.db set.mm`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.Jobs, "jobs", verify.DefaultJobs(), "concurrent verification workers (1 = sequential)")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "stop scheduling proofs after the first failure")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to history database (optional)")

	return cmd
}

func runVerify(cmd *cobra.Command, opts *VerifyOptions, path string) error {
	configureLogging(opts.RootOptions)

	db, err := loadFile(path)
	if err != nil {
		return err
	}

	slog.Debug("verifying", "jobs", opts.Jobs, "fail_fast", opts.FailFast)
	results, err := verify.All(cmd.Context(), db, verify.Options{
		Jobs:     opts.Jobs,
		FailFast: opts.FailFast,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "verification aborted", err)
	}

	gen := opts.RunIDs
	if gen == nil {
		gen = report.UUIDv7Generator{}
	}
	run := report.New(gen, db.Name, results)

	if opts.Database != "" {
		st, err := report.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open history database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing history database", "error", closeErr)
			}
		}()
		if err := st.SaveRun(cmd.Context(), run); err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		slog.Info("run recorded", "run_id", run.ID, "db", opts.Database)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		if err := out.JSON(run.CanonicalMap()); err != nil {
			return WrapExitError(ExitCommandError, "failed to encode report", err)
		}
	} else {
		sum := run.Summarize()
		for _, sr := range run.Failed() {
			out.Textf("FAIL %s: %s\n", sr.Label, sr.Reason)
		}
		out.Textf("%s: %d theorems, %d verified, %d failed\n",
			db.Name, sum.Theorems, sum.Verified, sum.Failed)
	}

	if sum := run.Summarize(); sum.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d proof(s) failed", sum.Failed))
	}
	return nil
}
