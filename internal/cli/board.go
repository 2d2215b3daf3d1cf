package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crescent-ops/lineup/internal/board"
)

// NewBoardCommand creates the board command.
func NewBoardCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "board",
		Short:         "Show the staffing board for the active date and shift",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(rootOpts, cmd)
		},
	}
	return cmd
}

func runBoard(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer sess.close(ctx)

	snap := sess.board.Snapshot()
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if out.IsJSON() {
		return out.JSON(snap)
	}
	printBoard(cmd, snap)
	return nil
}

func printBoard(cmd *cobra.Command, snap board.Snapshot) {
	w := cmd.OutOrStdout()
	lock := ""
	if snap.Locked {
		lock = "  [LOCKED]"
	}
	fmt.Fprintf(w, "%s - %s shift%s\n", snap.Date, snap.Shift, lock)

	for _, l := range snap.Lines {
		cut := ""
		if l.IsCut {
			cut = "  (cut)"
		}
		fmt.Fprintf(w, "\nLine %s  [%d/%d]%s", l.Letter, l.Filled(), l.Needed, cut)
		if len(l.Leads) > 0 {
			fmt.Fprintf(w, "  leads: %s", strings.Join(l.Leads, ", "))
		}
		fmt.Fprintln(w)
		for i, p := range l.Positions {
			name := p.Name
			if p.Vacant() {
				name = "-"
			}
			marker := ""
			if p.IsNew {
				marker = " *new"
			}
			fmt.Fprintf(w, "  %2d. %s%s\n", i+1, name, marker)
		}
	}

	fmt.Fprintf(w, "\nWaitlist (%d):\n", len(snap.Waitlist))
	for _, e := range snap.Waitlist {
		marker := ""
		if e.IsNew {
			marker = " *new"
		}
		fmt.Fprintf(w, "  - %s%s\n", e.Name, marker)
	}
}
