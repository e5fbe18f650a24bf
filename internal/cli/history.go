package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mmcheck/mmcheck/internal/report"
)

// HistoryOptions holds flags shared by the history subcommands.
type HistoryOptions struct {
	*RootOptions
	Database string
}

// NewHistoryCommand creates the history command group.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded verification runs",
	}
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to history database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newHistoryListCommand(opts))
	cmd.AddCommand(newHistoryDiffCommand(opts))
	return cmd
}

func openStore(opts *HistoryOptions) (*report.Store, error) {
	st, err := report.Open(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open history database", err)
	}
	return st, nil
}

func newHistoryListCommand(opts *HistoryOptions) *cobra.Command {
	var dbFilter string
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List recorded runs, oldest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(opts.RootOptions)
			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context(), dbFilter)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list runs", err)
			}
			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			if opts.Format == "json" {
				list := make([]any, len(runs))
				for i, r := range runs {
					list[i] = map[string]any{
						"run_id":     r.ID,
						"database":   r.Database,
						"created_at": r.CreatedAt.Format(time.RFC3339),
						"theorems":   r.Summary.Theorems,
						"verified":   r.Summary.Verified,
						"failed":     r.Summary.Failed,
					}
				}
				return out.JSON(map[string]any{"runs": list})
			}
			for _, r := range runs {
				out.Textf("%s  %s  %s  %d/%d verified, %d failed\n",
					r.ID, r.CreatedAt.Format(time.RFC3339), r.Database,
					r.Summary.Verified, r.Summary.Theorems, r.Summary.Failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbFilter, "database", "", "only list runs of this database file")
	return cmd
}

func newHistoryDiffCommand(opts *HistoryOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "diff <run-id-from> <run-id-to>",
		Short:         "Diff two runs' per-statement outcomes",
		Long:          "Compare two recorded runs label by label. Exit code 1 when outcomes differ.",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(opts.RootOptions)
			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			deltas, err := st.DiffRuns(cmd.Context(), args[0], args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to diff runs", err)
			}
			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			if opts.Format == "json" {
				list := make([]any, len(deltas))
				for i, d := range deltas {
					list[i] = map[string]any{
						"label": d.Label,
						"from":  string(d.From),
						"to":    string(d.To),
					}
				}
				if err := out.JSON(map[string]any{"deltas": list}); err != nil {
					return WrapExitError(ExitCommandError, "failed to encode diff", err)
				}
			} else {
				for _, d := range deltas {
					from, to := string(d.From), string(d.To)
					if from == "" {
						from = "(absent)"
					}
					if to == "" {
						to = "(absent)"
					}
					out.Textf("%s: %s -> %s\n", d.Label, from, to)
				}
			}
			if len(deltas) > 0 {
				return NewExitError(ExitFailure, "runs disagree")
			}
			out.Textf("runs agree\n")
			return nil
		},
	}
	return cmd
}
