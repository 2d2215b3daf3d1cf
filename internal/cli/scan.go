package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crescent-ops/lineup/internal/door"
	"github.com/crescent-ops/lineup/internal/roster"
	"github.com/crescent-ops/lineup/internal/scan"
)

// ScanOptions holds flags for the scan command.
type ScanOptions struct {
	*RootOptions
	RosterFile string
	Kiosk      bool
	Listen     bool
}

// NewScanCommand creates the scan command.
func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scan [badge-payload]",
		Short: "Run badge payloads through the scan pipeline",
		Long: `Run badge payloads through the scan pipeline.

With an argument, processes a single payload and prints the result. With
--listen, reads one payload per line from stdin until EOF - each line is
treated as a completed scanner burst.

The roster file is a JSON object keyed by employee number:
  {"1000001": {"employeeNumber":"1000001","firstName":"Jane","lastName":"Doe","status":"Active"}}

Example:
  lineup scan PLX-1000001-ABC --roster actives.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !opts.Listen {
				return WrapExitError(ExitCommandError, "scan", fmt.Errorf("provide a payload or --listen"))
			}
			return runScan(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RosterFile, "roster", "", "roster JSON file (required)")
	cmd.Flags().BoolVar(&opts.Kiosk, "kiosk", false, "kiosk display context")
	cmd.Flags().BoolVar(&opts.Listen, "listen", false, "read payloads from stdin")
	_ = cmd.MarkFlagRequired("roster")

	return cmd
}

func runScan(opts *ScanOptions, args []string, cmd *cobra.Command) error {
	r, err := loadRoster(opts.RosterFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "load roster", err)
	}

	ctx := cmd.Context()
	sess, err := openSession(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer sess.close(ctx)

	pipeline := scan.NewPipeline(scan.Config{
		Roster:      r,
		Board:       sess.board,
		Assignments: sess.sheet,
		Door:        door.NewController(nil, nil),
		Audit:       sess.audit,
		Kiosk:       opts.Kiosk,
	})
	defer pipeline.Close()

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	if len(args) == 1 {
		result, ok := pipeline.Process(ctx, args[0])
		if !ok {
			return WrapExitError(ExitFailure, "scan", fmt.Errorf("scan dropped"))
		}
		return printResult(out, cmd, result)
	}

	// Each stdin line is fed through the wedge as one scanner burst, so
	// the same length filtering applies as with a physical scanner.
	var printErr error
	wedge := scan.NewWedge(nil, func(payload string) {
		result, ok := pipeline.Process(ctx, payload)
		if !ok {
			return
		}
		if err := printResult(out, cmd, result); err != nil && printErr == nil {
			printErr = err
		}
	})
	defer wedge.Close()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		for _, r := range scanner.Text() {
			wedge.Rune(r)
		}
		wedge.Terminate()
		if printErr != nil {
			return printErr
		}
	}
	return scanner.Err()
}

func printResult(out *OutputFormatter, cmd *cobra.Command, result scan.Result) error {
	if out.IsJSON() {
		return out.JSON(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n\n", result.Status, result.Message)
	return nil
}

// loadRoster reads a roster JSON file and normalizes it at the boundary.
func loadRoster(path string) (roster.Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records map[string]roster.Associate
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}

	list := make([]roster.Associate, 0, len(records))
	for emp, a := range records {
		if a.EmployeeNumber == "" {
			a.EmployeeNumber = emp
		}
		list = append(list, a)
	}
	r, rejected := roster.Build(list)
	for _, err := range rejected {
		fmt.Fprintf(os.Stderr, "roster: skipped: %v\n", err)
	}
	return r, nil
}
