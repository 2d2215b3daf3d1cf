package cli

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/crescent-ops/lineup/internal/assign"
	"github.com/crescent-ops/lineup/internal/store"
)

// AssignOptions holds flags for assignments set.
type AssignOptions struct {
	*RootOptions
	First string
	Last  string
	Line  string
	Leads []string
}

// NewAssignmentsCommand creates the assignments command group.
func NewAssignmentsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assignments",
		Short: "Manage the daily line assignment plan",
	}
	cmd.AddCommand(newAssignmentsListCommand(rootOpts))
	cmd.AddCommand(newAssignmentsSetCommand(rootOpts))
	cmd.AddCommand(newAssignmentsRemoveCommand(rootOpts))
	return cmd
}

func newAssignmentsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List planned assignments for the active date and shift",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := openSession(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer sess.close(ctx)

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if out.IsJSON() {
				return out.JSON(sess.sheet)
			}

			emps := make([]string, 0, len(sess.sheet))
			for emp := range sess.sheet {
				emps = append(emps, emp)
			}
			sort.Strings(emps)
			for _, emp := range emps {
				a := sess.sheet[emp]
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-20s Line %-3s leads: %s\n",
					emp, a.FirstName+" "+a.LastName, a.Line, strings.Join(a.Leads, ", "))
			}
			return nil
		},
	}
}

func newAssignmentsSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AssignOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:           "set <employee-number>",
		Short:         "Plan an associate onto a line for the shift",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := openSession(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer sess.close(ctx)

			a := assign.Assignment{
				EmployeeNumber: args[0],
				FirstName:      opts.First,
				LastName:       opts.Last,
				Line:           opts.Line,
				Leads:          opts.Leads,
			}
			if err := sess.sheet.Assign(a, time.Now()); err != nil {
				return WrapExitError(ExitFailure, "assign", err)
			}
			if err := store.SaveAssignments(ctx, sess.cache, nil, sess.date, sess.shift, sess.sheet, slog.Default()); err != nil {
				return WrapExitError(ExitFailure, "save assignments", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to Line %s.\n", args[0], opts.Line)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.First, "first", "", "first name")
	cmd.Flags().StringVar(&opts.Last, "last", "", "last name")
	cmd.Flags().StringVar(&opts.Line, "line", "", "line letter")
	cmd.Flags().StringSliceVar(&opts.Leads, "lead", nil, "line lead (repeatable)")
	_ = cmd.MarkFlagRequired("first")
	_ = cmd.MarkFlagRequired("last")
	_ = cmd.MarkFlagRequired("line")
	return cmd
}

func newAssignmentsRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <employee-number>",
		Short:         "Remove an associate's planned assignment",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := openSession(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer sess.close(ctx)

			sess.sheet.Remove(args[0])
			if err := store.SaveAssignments(ctx, sess.cache, nil, sess.date, sess.shift, sess.sheet, slog.Default()); err != nil {
				return WrapExitError(ExitFailure, "save assignments", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed assignment for %s.\n", args[0])
			return nil
		},
	}
}
