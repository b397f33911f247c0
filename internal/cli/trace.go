package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/animator/internal/store"
	"github.com/roach88/animator/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string // "latest" selects the newest run
	Scenario string // filter the run list
	Kind     string // filter events to one kind
}

// TraceResult is the JSON payload for one recorded run.
type TraceResult struct {
	Run    store.Run     `json:"run"`
	Events []trace.Event `json:"events"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect recorded runs",
		Long: `List recorded runs, or print the trace of one run.

Examples:
  animator trace --db ./runs.db
  animator trace --db ./runs.db --scenario transition_deferred
  animator trace --db ./runs.db --run latest
  animator trace --db ./runs.db --run <id> --kind dispatch --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", `run ID to print, or "latest"`)
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "list only runs of this scenario")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "print only events of this kind (frame|dispatch|defer|arm|error)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	// Opening would create an empty database; a typo should fail instead.
	if _, err := os.Stat(opts.Database); err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.RunID == "" {
		return listRuns(ctx, st, opts, formatter, cmd)
	}
	return showRun(ctx, st, opts, formatter, cmd)
}

func listRuns(ctx context.Context, st *store.Store, opts *TraceOptions, formatter *OutputFormatter, cmd *cobra.Command) error {
	runs, err := st.ListRuns(ctx, opts.Scenario)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if formatter.IsJSON() {
		return formatter.Success(runs)
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		status := "pass"
		if !r.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%4d  %s  %-4s  %-28s %3d frames  %s\n",
			r.Seq, r.ID, status, r.Scenario, r.Frames, r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func showRun(ctx context.Context, st *store.Store, opts *TraceOptions, formatter *OutputFormatter, cmd *cobra.Command) error {
	var (
		run store.Run
		err error
	)
	if opts.RunID == "latest" {
		run, err = st.LatestRun(ctx)
	} else {
		run, err = st.ReadRun(ctx, opts.RunID)
	}
	if errors.Is(err, sql.ErrNoRows) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("run not found: %s", opts.RunID), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", opts.RunID))
	}
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	events, err := st.ReadEvents(ctx, run.ID)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read events", err)
	}
	if opts.Kind != "" {
		events = trace.Filter(events, trace.Kind(opts.Kind))
		if events == nil {
			events = []trace.Event{}
		}
	}

	if formatter.IsJSON() {
		return formatter.SuccessRun(TraceResult{Run: run, Events: events}, run.ID)
	}

	w := cmd.OutOrStdout()
	status := "passed"
	if !run.Pass {
		status = "failed"
	}
	fmt.Fprintf(w, "Run %s: %s %s (%d frames, %d schedules)\n", run.ID, run.Scenario, status, run.Frames, run.Schedules)
	for _, e := range run.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
	fmt.Fprint(w, trace.Text(events))
	return nil
}
