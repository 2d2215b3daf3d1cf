package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crescent-ops/lineup/internal/board"
)

// NewMoveCommand creates the move command.
func NewMoveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <source> <target>",
		Short: "Move an associate between the waitlist and line positions",
		Long: `Move an associate between the waitlist and line positions.

References:
  w:<entry-id>            a waitlist entry
  p:<line-id>:<pos-id>    a line position
  waitlist                the waitlist (as a target)

A move into an occupied position displaces the prior occupant back onto
the waitlist. Moves touching a cut line, or whose source is vacant, are
rejected without changing the board.

Example:
  lineup move w:0198c1f2 p:line-a:3`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMove(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runMove(opts *RootOptions, srcArg, dstArg string, cmd *cobra.Command) error {
	src, err := parseRef(srcArg)
	if err != nil {
		return WrapExitError(ExitCommandError, "source", err)
	}
	dst, err := parseRef(dstArg)
	if err != nil {
		return WrapExitError(ExitCommandError, "target", err)
	}

	ctx := cmd.Context()
	sess, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer sess.close(ctx)

	if err := sess.board.Move(src, dst); err != nil {
		return WrapExitError(ExitFailure, "move rejected", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if out.IsJSON() {
		return out.JSON(sess.board.Snapshot())
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Moved.")
	return nil
}

// parseRef parses the w:/p:/waitlist reference syntax.
func parseRef(s string) (board.Ref, error) {
	switch {
	case s == "waitlist":
		return board.WaitlistTarget(), nil
	case strings.HasPrefix(s, "w:"):
		id := strings.TrimPrefix(s, "w:")
		if id == "" {
			return board.Ref{}, fmt.Errorf("empty waitlist entry id in %q", s)
		}
		return board.WaitlistRef(id), nil
	case strings.HasPrefix(s, "p:"):
		parts := strings.SplitN(strings.TrimPrefix(s, "p:"), ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return board.Ref{}, fmt.Errorf("position reference %q must be p:<line-id>:<pos-id>", s)
		}
		return board.PositionRef(parts[0], parts[1]), nil
	default:
		return board.Ref{}, fmt.Errorf("unrecognized reference %q", s)
	}
}
