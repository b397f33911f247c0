package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/animator/internal/animator"
	"github.com/roach88/animator/internal/testutil"
	"github.com/roach88/animator/internal/trace"
)

// Harness executes one scenario against a fresh Animator.
// Frames fire only on frame steps, with timestamps from a StepClock, so a
// scenario always produces the same trace.
type Harness struct {
	animator  *animator.Animator
	primitive *testutil.ManualPrimitive
	clock     *testutil.StepClock
	recorder  *trace.Recorder
	logger    *slog.Logger

	components  map[string]*scripted
	controllers map[string]*animator.Controller
	retired     map[string]*animator.Controller
}

// Option configures a run.
type Option func(*Harness)

// WithLogger routes animator logs to l. Runs are silent by default.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Create an Animator over a ManualPrimitive with a trace Recorder
//  2. Register every component not marked detached, in document order
//  3. Execute steps, checking expected errors
//  4. Snapshot the final state and evaluate assertions
//
// A returned error means the scenario could not be set up; step and
// assertion failures are reported in Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	h := &Harness{
		primitive:   testutil.NewManualPrimitive(),
		clock:       testutil.NewStepClock(testutil.Epoch, 0),
		recorder:    trace.NewRecorder(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		components:  make(map[string]*scripted, len(scenario.Components)),
		controllers: make(map[string]*animator.Controller, len(scenario.Components)),
		retired:     make(map[string]*animator.Controller),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.animator = animator.New(h.primitive,
		animator.WithObserver(h.recorder),
		animator.WithLogger(h.logger),
	)

	for _, spec := range scenario.Components {
		caps, err := parseCapabilities(spec.Capabilities)
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", spec.Name, err)
		}
		h.components[spec.Name] = &scripted{spec: spec, caps: caps, h: h}
	}
	for _, spec := range scenario.Components {
		if spec.Detached {
			continue
		}
		if err := h.register(spec.Name); err != nil {
			return nil, fmt.Errorf("failed to register %q: %w", spec.Name, err)
		}
	}

	result := NewResult(scenario.Name)
	for i, step := range scenario.Steps {
		h.executeStep(i, step, result)
	}

	h.snapshot(result)
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) executeStep(i int, step Step, result *Result) {
	switch step.Action {
	case StepFrame:
		n := step.Count
		if n == 0 {
			n = 1
		}
		var errs []error
		for f := 0; f < n && h.primitive.Pending(); f++ {
			if err := h.primitive.Fire(h.clock.Now()); err != nil {
				errs = append(errs, err)
			}
		}
		checkStepErrors(i, step, errs, result)
	case StepRequest:
		checkStepErrors(i, step, single(h.request(step.Component, step.Phase)), result)
	case StepCancel:
		checkStepErrors(i, step, single(h.cancel(step.Component, step.Phase)), result)
	case StepDestroy:
		checkStepErrors(i, step, single(h.destroy(step.Component)), result)
	case StepRegister:
		checkStepErrors(i, step, single(h.register(step.Component)), result)
	default:
		result.AddError(fmt.Sprintf("steps[%d]: unknown action %q", i, step.Action))
	}
}

func single(err error) []error {
	if err == nil {
		return nil
	}
	return []error{err}
}

// checkStepErrors compares the errors a step produced with its expect_error.
func checkStepErrors(i int, step Step, errs []error, result *Result) {
	if step.ExpectError == "" {
		for _, err := range errs {
			result.AddError(fmt.Sprintf("steps[%d] %s: unexpected error: %v", i, step.Action, err))
		}
		return
	}
	if len(errs) == 0 {
		result.AddError(fmt.Sprintf("steps[%d] %s: expected %s error, got none", i, step.Action, step.ExpectError))
		return
	}
	for _, err := range errs {
		if class := classify(err); class != step.ExpectError {
			result.AddError(fmt.Sprintf("steps[%d] %s: expected %s error, got %s: %v", i, step.Action, step.ExpectError, class, err))
		}
	}
}

// classify maps an error to an expect_error class.
func classify(err error) string {
	switch {
	case animator.IsComponentError(err):
		return ErrorComponent
	case animator.IsCapabilityError(err):
		return ErrorCapability
	case animator.IsRegistrationError(err):
		return ErrorRegistration
	case errors.Is(err, animator.ErrDetached):
		return ErrorDetached
	default:
		return "unexpected"
	}
}

// controller returns the live controller for name, or the stale one left
// behind by destroy.
func (h *Harness) controller(name string) (*animator.Controller, error) {
	if c, ok := h.controllers[name]; ok {
		return c, nil
	}
	if c, ok := h.retired[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("component %q: %w", name, animator.ErrDetached)
}

func (h *Harness) request(name, phase string) error {
	p, err := animator.ParsePhase(phase)
	if err != nil {
		return err
	}
	c, err := h.controller(name)
	if err != nil {
		return err
	}
	return c.Request(p)
}

func (h *Harness) cancel(name, phase string) error {
	p, err := animator.ParsePhase(phase)
	if err != nil {
		return err
	}
	c, err := h.controller(name)
	if err != nil {
		return err
	}
	c.Cancel(p)
	return nil
}

func (h *Harness) destroy(name string) error {
	c, err := h.controller(name)
	if err != nil {
		return err
	}
	if err := c.Destroy(); err != nil {
		return fmt.Errorf("component %q: %w", name, err)
	}
	delete(h.controllers, name)
	h.retired[name] = c
	return nil
}

func (h *Harness) register(name string) error {
	component, ok := h.components[name]
	if !ok {
		return fmt.Errorf("unknown component %q", name)
	}
	if _, ok := h.controllers[name]; ok {
		return fmt.Errorf("component %q is already registered", name)
	}

	c, err := h.animator.Register(component)
	if err != nil {
		return err
	}
	delete(h.retired, name)
	h.controllers[name] = c
	return nil
}

// snapshot copies the final scheduler state into result.
func (h *Harness) snapshot(result *Result) {
	result.Trace = h.recorder.Events()
	result.Schedules = h.primitive.Schedules()
	result.Frames = h.animator.Frames()
	result.Armed = h.animator.Requested()
	result.Registry = h.animator.Len()

	for i := 0; i < h.animator.Len(); i++ {
		c := h.animator.Controller(i)
		name := trace.Name(c.Component(), i)
		phases := []string{}
		for _, p := range animator.Phases() {
			if c.Pending(p) {
				phases = append(phases, p.String())
			}
		}
		result.Pending[name] = phases
	}
}
