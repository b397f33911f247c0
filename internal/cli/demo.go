package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/animator/internal/animator"
	"github.com/roach88/animator/internal/host"
	"github.com/roach88/animator/internal/trace"
)

// DemoOptions holds flags for the demo command.
type DemoOptions struct {
	*RootOptions
	FPS    int
	Frames int
}

// DemoResult summarizes a demo run.
type DemoResult struct {
	Ticks      int64          `json:"ticks"`
	Frames     int64          `json:"frames"`
	Failed     int64          `json:"failed"`
	Dispatches map[string]int `json:"dispatches"`
	Deferred   int            `json:"deferred"`
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DemoOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Drive demo components from a live frame loop",
		Long: `Drive a few demo components from a real-time frame loop.

A spinner animates for half of the ticks, redrawing a label every
tenth turn. When it stops, a panel is asked to draw and transition at
once; its transition is deferred behind the draw. Per-phase dispatch counts are printed at the end.

Examples:
  animator demo
  animator demo --fps 120 --frames 240 --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.FPS, "fps", 60, "frame loop rate")
	cmd.Flags().IntVar(&opts.Frames, "frames", 120, "number of loop ticks to run")

	return cmd
}

// demoSpinner animates for limit turns, then calls done.
type demoSpinner struct {
	ctrl  *animator.Controller
	label *animator.Controller
	done  func()
	turns int
	limit int
}

func (s *demoSpinner) Name() string { return "spinner" }

func (s *demoSpinner) Animate(now time.Time) error {
	s.turns++
	if s.turns%10 == 0 {
		if err := s.label.RequestRedraw(); err != nil {
			return err
		}
	}
	if s.turns == s.limit {
		s.ctrl.CancelAnimation()
		s.done()
	}
	return nil
}

// demoLabel lays itself out once and redraws on demand.
type demoLabel struct{}

func (demoLabel) Name() string                { return "label" }
func (demoLabel) Measure(now time.Time) error { return nil }
func (demoLabel) Draw(now time.Time) error    { return nil }
func (demoLabel) Redraw(now time.Time) error  { return nil }

// demoPanel transitions after its first draw.
type demoPanel struct{}

func (demoPanel) Name() string                   { return "panel" }
func (demoPanel) Transition(now time.Time) error { return nil }
func (demoPanel) Draw(now time.Time) error       { return nil }

// setupDemo registers the demo components and arms the first frame. It must
// run on the loop goroutine.
//
// When the spinner stops, the panel's draw and transition are requested from
// a loop task, between frames, the way user input would arrive.
func setupDemo(a *animator.Animator, loop *host.Loop, limit int, errs *[]error) error {
	labelCtrl, err := a.Register(demoLabel{})
	if err != nil {
		return err
	}
	panelCtrl, err := a.Register(demoPanel{})
	if err != nil {
		return err
	}

	handover := func() {
		if err := panelCtrl.RequestDraw(); err != nil {
			*errs = append(*errs, err)
		}
		if err := panelCtrl.RequestTransition(); err != nil {
			*errs = append(*errs, err)
		}
	}
	spinner := &demoSpinner{
		label: labelCtrl,
		limit: limit,
		done: func() {
			if err := loop.Submit(handover); err != nil {
				*errs = append(*errs, err)
			}
		},
	}
	if spinner.ctrl, err = a.Register(spinner); err != nil {
		return err
	}

	if err := labelCtrl.RequestMeasure(); err != nil {
		return err
	}
	if err := labelCtrl.RequestDraw(); err != nil {
		return err
	}
	return spinner.ctrl.RequestAnimation()
}

func runDemo(opts *DemoOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if opts.FPS <= 0 || opts.Frames <= 0 {
		_ = formatter.Error(ErrCodeGeneric, "--fps and --frames must be positive", nil)
		return NewExitError(ExitCommandError, "--fps and --frames must be positive")
	}
	logger := formatter.Logger()

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	loop := host.NewLoop(
		host.WithFPS(opts.FPS),
		host.WithMaxTicks(opts.Frames),
		host.WithLogger(logger),
	)
	rec := trace.NewRecorder()
	a := animator.New(loop, animator.WithLogger(logger), animator.WithObserver(rec))

	limit := opts.Frames / 2
	if limit < 1 {
		limit = 1
	}
	var errs []error
	if err := loop.Submit(func() {
		if err := setupDemo(a, loop, limit, &errs); err != nil {
			errs = append(errs, err)
		}
	}); err != nil {
		return WrapExitError(ExitCommandError, "failed to start demo", err)
	}

	formatter.VerboseLog("Running demo: %d ticks at %d fps", opts.Frames, opts.FPS)
	if err := loop.Run(ctx); err != nil && err != context.Canceled {
		return WrapExitError(ExitFailure, "frame loop error", err)
	}
	if err := errors.Join(errs...); err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, "demo failed", err)
	}

	result := DemoResult{
		Ticks:      loop.Ticks(),
		Frames:     a.Frames(),
		Failed:     loop.Failed(),
		Dispatches: make(map[string]int, 5),
	}
	for _, p := range animator.Phases() {
		result.Dispatches[p.String()] = 0
	}
	for _, e := range rec.Events() {
		switch e.Kind {
		case trace.KindDispatch:
			result.Dispatches[e.Phase]++
		case trace.KindDefer:
			result.Deferred++
		}
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	writeDemoText(cmd, opts, result)
	return nil
}

func writeDemoText(cmd *cobra.Command, opts *DemoOptions, result DemoResult) {
	w := cmd.OutOrStdout()
	caser := cases.Title(language.English)

	fmt.Fprintf(w, "Demo: %d ticks at %d fps, %d frames\n", result.Ticks, opts.FPS, result.Frames)
	for _, p := range animator.Phases() {
		fmt.Fprintf(w, "  %-12s %4d\n", caser.String(p.String()), result.Dispatches[p.String()])
	}
	fmt.Fprintf(w, "  Deferred transitions: %d\n", result.Deferred)
	if result.Failed > 0 {
		fmt.Fprintf(w, "  Failed frames: %d\n", result.Failed)
	}
}
