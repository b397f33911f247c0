package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/animator/internal/harness"
	"github.com/roach88/animator/internal/trace"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string

	// IDGenerator allows overriding run IDs (for testing).
	// If nil, defaults to trace.UUIDv7Generator.
	IDGenerator trace.IDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run one scenario and print its trace",
		Long: `Run a scenario against a fresh scheduler and print the trace.

With --db the run and its trace are recorded to SQLite for later
inspection with "animator trace".

Exit codes:
  0 - Scenario passed
  1 - Scenario failed
  2 - Command error (invalid scenario, database error, etc.)

Examples:
  animator run scenarios/transition_deferred.yaml
  animator run scenarios/transition_deferred.yaml --db ./runs.db
  animator run scenarios/transition_deferred.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioFile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run to this SQLite database")

	return cmd
}

func runScenarioFile(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("scenario file not found: %s", path), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("scenario file not found: %s", path))
	}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		_ = formatter.Error(ErrCodeLoadFailed, err.Error(), map[string]string{"file": path})
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	formatter.VerboseLog("Loaded scenario %s (%d components, %d steps)",
		scenario.Name, len(scenario.Components), len(scenario.Steps))

	result, err := harness.Run(scenario, harness.WithLogger(formatter.Logger()))
	if err != nil {
		_ = formatter.Error(ErrCodeRunFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	var runID string
	if opts.Database != "" {
		rec, err := openRecorder(opts.Database, opts.IDGenerator)
		if err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer rec.Close()

		if runID, err = rec.record(ctx, result); err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		formatter.VerboseLog("Recorded run %s to %s", runID, opts.Database)
	}

	if formatter.IsJSON() {
		if err := formatter.SuccessRun(result, runID); err != nil {
			return err
		}
	} else {
		writeRunText(cmd, result, runID)
	}

	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", result.Name))
	}
	return nil
}

func writeRunText(cmd *cobra.Command, result *harness.Result, runID string) {
	w := cmd.OutOrStdout()
	mark := "✓"
	if !result.Pass {
		mark = "✗"
	}
	fmt.Fprintf(w, "%s %s (%d frames, %d schedules)\n", mark, result.Name, result.Frames, result.Schedules)
	for _, e := range result.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
	fmt.Fprint(w, trace.Text(result.Trace))
	if runID != "" {
		fmt.Fprintf(w, "Recorded run %s\n", runID)
	}
}
