package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/crescent-ops/lineup/internal/board"
	"github.com/crescent-ops/lineup/internal/config"
)

// NewSetupCommand creates the setup command.
func NewSetupCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup <setup.yaml>",
		Short: "Create the staffing board for a shift from a setup file",
		Long: `Create the staffing board for a shift from a setup file.

The file names the date, shift, and lines (letter, leads, capacity). It is
validated before anything is written; an existing board for the same
date+shift is replaced.

Example:
  lineup setup friday.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runSetup(opts *RootOptions, path string, cmd *cobra.Command) error {
	setup, err := config.LoadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "load setup", err)
	}

	// The setup document names its own date+shift; the session follows it.
	opts.Date = setup.Date
	opts.Shift = setup.Shift

	ctx := cmd.Context()
	sess, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer sess.close(ctx)

	built := setup.Build(sess.board.IDs(), time.Now())
	if err := sess.board.Mutate(func(board.Snapshot) (board.Snapshot, error) {
		return built, nil
	}); err != nil {
		return WrapExitError(ExitFailure, "apply setup", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if out.IsJSON() {
		return out.JSON(sess.board.Snapshot())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Board created for %s %s shift: %d lines\n",
		setup.Date, setup.Shift, len(setup.Lines))
	return nil
}
