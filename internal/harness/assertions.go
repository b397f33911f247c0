package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/animator/internal/trace"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string        // Assertion type for categorization
	Expected string        // Human-readable expected outcome
	Actual   string        // Human-readable actual outcome
	Trace    []trace.Event // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  %s\n", event)
		}
	}

	return buf.String()
}

// dispatchKeys returns the "component.phase" key of every dispatch, in order.
func dispatchKeys(events []trace.Event) []string {
	var keys []string
	for _, e := range trace.Filter(events, trace.KindDispatch) {
		keys = append(keys, e.Key())
	}
	return keys
}

// assertTraceOrder checks that dispatches appear in the given order.
// They don't need to be consecutive; the first occurrence of each counts.
func assertTraceOrder(events []trace.Event, assertion Assertion) error {
	positions := make(map[string]int)
	for i, key := range dispatchKeys(events) {
		if _, seen := positions[key]; !seen {
			positions[key] = i + 1
		}
	}

	for _, key := range assertion.Events {
		if positions[key] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all events present: %v", assertion.Events),
				Actual:   fmt.Sprintf("missing event: %s", key),
				Trace:    events,
			}
		}
	}

	for i := 1; i < len(assertion.Events); i++ {
		prev, curr := assertion.Events[i-1], assertion.Events[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("events in order: %v", assertion.Events),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: events,
			}
		}
	}
	return nil
}

func countDispatches(events []trace.Event, key string) int {
	n := 0
	for _, k := range dispatchKeys(events) {
		if k == key {
			n++
		}
	}
	return n
}

// assertTraceCount checks that a dispatch appears exactly Count times.
func assertTraceCount(events []trace.Event, assertion Assertion) error {
	if n := countDispatches(events, assertion.Event); n != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%s dispatched %d times", assertion.Event, assertion.Count),
			Actual:   fmt.Sprintf("dispatched %d times", n),
			Trace:    events,
		}
	}
	return nil
}

// assertTraceAbsent checks that a dispatch never happened.
func assertTraceAbsent(events []trace.Event, assertion Assertion) error {
	if n := countDispatches(events, assertion.Event); n != 0 {
		return &AssertionError{
			Type:     AssertTraceAbsent,
			Expected: fmt.Sprintf("%s never dispatched", assertion.Event),
			Actual:   fmt.Sprintf("dispatched %d times", n),
			Trace:    events,
		}
	}
	return nil
}

// assertDeferred counts deferred transitions, optionally for one component.
func assertDeferred(events []trace.Event, assertion Assertion) error {
	n := 0
	for _, e := range trace.Filter(events, trace.KindDefer) {
		if assertion.Component == "" || e.Component == assertion.Component {
			n++
		}
	}
	if n != assertion.Count {
		subject := "transitions"
		if assertion.Component != "" {
			subject = assertion.Component + " transitions"
		}
		return &AssertionError{
			Type:     AssertDeferred,
			Expected: fmt.Sprintf("%d %s deferred", assertion.Count, subject),
			Actual:   fmt.Sprintf("%d deferred", n),
			Trace:    events,
		}
	}
	return nil
}

func assertPending(result *Result, assertion Assertion) error {
	actual := result.IsPending(assertion.Component, assertion.Phase)
	if actual != *assertion.Expect {
		return &AssertionError{
			Type:     AssertPending,
			Expected: fmt.Sprintf("%s.%s pending=%t", assertion.Component, assertion.Phase, *assertion.Expect),
			Actual:   fmt.Sprintf("pending=%t", actual),
		}
	}
	return nil
}

func assertArmed(result *Result, assertion Assertion) error {
	if result.Armed != *assertion.Expect {
		return &AssertionError{
			Type:     AssertArmed,
			Expected: fmt.Sprintf("armed=%t", *assertion.Expect),
			Actual:   fmt.Sprintf("armed=%t", result.Armed),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertNumber(kind, what string, expected, actual int64) error {
	if expected != actual {
		return &AssertionError{
			Type:     kind,
			Expected: fmt.Sprintf("%d %s", expected, what),
			Actual:   fmt.Sprintf("%d %s", actual, what),
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertTraceAbsent:
			err = assertTraceAbsent(result.Trace, assertion)
		case AssertDeferred:
			err = assertDeferred(result.Trace, assertion)
		case AssertPending:
			if assertion.Expect == nil {
				err = fmt.Errorf("assertion[%d]: pending requires expect", i)
			} else {
				err = assertPending(result, assertion)
			}
		case AssertArmed:
			if assertion.Expect == nil {
				err = fmt.Errorf("assertion[%d]: armed requires expect", i)
			} else {
				err = assertArmed(result, assertion)
			}
		case AssertSchedules:
			err = assertNumber(AssertSchedules, "schedules", int64(assertion.Count), int64(result.Schedules))
		case AssertFrames:
			err = assertNumber(AssertFrames, "frames", int64(assertion.Count), result.Frames)
		case AssertRegistry:
			err = assertNumber(AssertRegistry, "controllers", int64(assertion.Count), int64(result.Registry))
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
