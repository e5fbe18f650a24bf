package cli

import (
	"github.com/spf13/cobra"
)

// NewCheckCommand creates the check command: load only, no proof replay.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file.mm>",
		Short: "Check a Metamath database for structural errors without verifying proofs",
		Long: `Load a Metamath database, reporting the first structural error
(bad syntax, duplicate or unknown labels, unbalanced scopes) with its
file, line and column. Proofs are parsed but not replayed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(rootOpts)
			db, err := loadFile(args[0])
			if err != nil {
				return err
			}
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if rootOpts.Format == "json" {
				return out.JSON(map[string]any{
					"database":   db.Name,
					"statements": len(db.Statements),
					"theorems":   len(db.Theorems()),
				})
			}
			out.Textf("ok: %s (%d statements, %d theorems)\n",
				db.Name, len(db.Statements), len(db.Theorems()))
			return nil
		},
	}
	return cmd
}
