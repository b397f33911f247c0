package harness

import (
	"github.com/roach88/animator/internal/trace"
)

// Scenario is a scripted animator run with assertions on its trace and final
// state.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden file name.
	Name string `yaml:"name" json:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description" json:"description"`

	// Components are the scripted components available to the run.
	Components []Component `yaml:"components" json:"components"`

	// Steps drive the run from outside any frame.
	Steps []Step `yaml:"steps" json:"steps"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions,omitempty" json:"assertions,omitempty"`
}

// Component describes a scripted component.
type Component struct {
	// Name is used in traces and assertion keys ("name.phase").
	Name string `yaml:"name" json:"name"`

	// Capabilities lists the phases the component opts into.
	Capabilities []string `yaml:"capabilities" json:"capabilities"`

	// Detached components are not registered at start; a register step or
	// behavior brings them in.
	Detached bool `yaml:"detached,omitempty" json:"detached,omitempty"`

	// Behaviors run when the component's phase operations are dispatched.
	Behaviors []Behavior `yaml:"behaviors,omitempty" json:"behaviors,omitempty"`
}

// Behavior is an action a component performs from inside one of its phases.
type Behavior struct {
	// On is the phase that triggers the behavior.
	On string `yaml:"on" json:"on"`

	// Frame restricts the behavior to one frame number. Zero means every frame.
	Frame int64 `yaml:"frame,omitempty" json:"frame,omitempty"`

	// Action is one of request, cancel, fail, destroy, register.
	Action string `yaml:"action" json:"action"`

	// Target names the component acted on. Empty means the component itself.
	Target string `yaml:"target,omitempty" json:"target,omitempty"`

	// Phase is the phase requested or cancelled.
	Phase string `yaml:"phase,omitempty" json:"phase,omitempty"`

	// Message is the error text returned by a fail behavior.
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

// Step is one scenario instruction executed between frames.
type Step struct {
	// Action is one of request, cancel, destroy, register, frame.
	Action string `yaml:"action" json:"action"`

	// Component names the component acted on.
	Component string `yaml:"component,omitempty" json:"component,omitempty"`

	// Phase is the phase requested or cancelled.
	Phase string `yaml:"phase,omitempty" json:"phase,omitempty"`

	// Count is the number of frames a frame step fires. Zero means one.
	Count int `yaml:"count,omitempty" json:"count,omitempty"`

	// ExpectError names the error class the step must produce:
	// capability, detached, component or registration.
	ExpectError string `yaml:"expect_error,omitempty" json:"expect_error,omitempty"`
}

// Assertion validates the trace or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_order": dispatches appear in order
	// - "trace_count": a dispatch appears exactly Count times
	// - "trace_absent": a dispatch never appears
	// - "deferred": Count transitions were deferred (optionally for Component)
	// - "pending": Phase of Component is pending or not, per Expect
	// - "armed": a frame request is outstanding or not, per Expect
	// - "schedules": the primitive saw Count Schedule calls
	// - "frames": Count frames ran
	// - "registry": Count controllers are registered
	Type string `yaml:"type" json:"type"`

	// Events are "component.phase" keys (used by trace_order).
	Events []string `yaml:"events,omitempty" json:"events,omitempty"`

	// Event is a "component.phase" key (used by trace_count, trace_absent).
	Event string `yaml:"event,omitempty" json:"event,omitempty"`

	// Component and Phase select a pending flag (used by pending, deferred).
	Component string `yaml:"component,omitempty" json:"component,omitempty"`
	Phase     string `yaml:"phase,omitempty" json:"phase,omitempty"`

	// Count is the expected number (used by count-style assertions).
	Count int `yaml:"count,omitempty" json:"count,omitempty"`

	// Expect is the expected boolean (used by pending, armed).
	Expect *bool `yaml:"expect,omitempty" json:"expect,omitempty"`
}

// Step actions.
const (
	StepRequest  = "request"
	StepCancel   = "cancel"
	StepDestroy  = "destroy"
	StepRegister = "register"
	StepFrame    = "frame"
)

// Behavior actions.
const (
	BehaviorRequest  = "request"
	BehaviorCancel   = "cancel"
	BehaviorFail     = "fail"
	BehaviorDestroy  = "destroy"
	BehaviorRegister = "register"
)

// Assertion type constants.
const (
	AssertTraceOrder  = "trace_order"
	AssertTraceCount  = "trace_count"
	AssertTraceAbsent = "trace_absent"
	AssertDeferred    = "deferred"
	AssertPending     = "pending"
	AssertArmed       = "armed"
	AssertSchedules   = "schedules"
	AssertFrames      = "frames"
	AssertRegistry    = "registry"
)

// Error classes for Step.ExpectError.
const (
	ErrorCapability   = "capability"
	ErrorDetached     = "detached"
	ErrorComponent    = "component"
	ErrorRegistration = "registration"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Name is the scenario name.
	Name string `json:"name"`

	// Pass is true if every step and assertion held.
	Pass bool `json:"pass"`

	// Trace is every scheduling decision, in order.
	Trace []trace.Event `json:"trace"`

	// Errors contains step and assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Schedules is the number of Schedule calls the primitive received.
	Schedules int `json:"schedules"`

	// Frames is the number of frames run.
	Frames int64 `json:"frames"`

	// Armed reports whether a frame request was outstanding at the end.
	Armed bool `json:"armed"`

	// Registry is the number of registered controllers at the end.
	Registry int `json:"registry"`

	// Pending maps each registered component to its pending phases at the end.
	Pending map[string][]string `json:"pending"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{
		Name:    name,
		Pass:    true,
		Trace:   []trace.Event{},
		Errors:  []string{},
		Pending: make(map[string][]string),
	}
}

// AddError adds a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// IsPending reports whether phase was pending on component at the end.
func (r *Result) IsPending(component, phase string) bool {
	for _, p := range r.Pending[component] {
		if p == phase {
			return true
		}
	}
	return false
}
