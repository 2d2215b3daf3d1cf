package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "history",
		Short:         "Show the audited scan log for the active date and shift",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, cmd)
		},
	}
	return cmd
}

func runHistory(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer sess.close(ctx)

	records, err := sess.audit.List(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "read scan log", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if out.IsJSON() {
		return out.JSON(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No scans recorded.")
		return nil
	}
	for _, rec := range records {
		name := ""
		if rec.Associate != nil {
			name = rec.Associate.FirstName + " " + rec.Associate.LastName
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-9s  %-8s  %s\n",
			rec.Timestamp.Format("15:04:05"), rec.Status, rec.EmployeeNumber, name)
	}
	return nil
}
