package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLockCommand creates the lock command.
func NewLockCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "lock",
		Short:         "Freeze the board; all edits are rejected until unlock",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetLocked(rootOpts, true, cmd)
		},
	}
}

// NewUnlockCommand creates the unlock command.
func NewUnlockCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "unlock",
		Short:         "Unfreeze the board",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetLocked(rootOpts, false, cmd)
		},
	}
}

func runSetLocked(opts *RootOptions, locked bool, cmd *cobra.Command) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer sess.close(ctx)

	sess.board.SetLocked(locked)

	state := "unlocked"
	if locked {
		state = "locked"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Board %s for %s %s shift.\n", state, opts.Date, opts.Shift)
	return nil
}
