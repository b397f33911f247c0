package trace

import (
	"fmt"
	"strings"
	"time"
)

// Kind classifies a trace event.
type Kind string

const (
	// KindFrame marks the start of a frame.
	KindFrame Kind = "frame"
	// KindDispatch is a phase operation about to run.
	KindDispatch Kind = "dispatch"
	// KindDefer is a transition postponed because a draw is pending.
	KindDefer Kind = "defer"
	// KindArm is a request placed with the frame primitive.
	KindArm Kind = "arm"
	// KindError is a frame aborted by a component error.
	KindError Kind = "error"
)

// Event is one scheduling decision.
type Event struct {
	Seq       int64     `json:"seq"`
	Frame     int64     `json:"frame"`
	Kind      Kind      `json:"kind"`
	Phase     string    `json:"phase,omitempty"`
	Component string    `json:"component,omitempty"`
	Index     int       `json:"index"`
	At        time.Time `json:"at"`
	Message   string    `json:"message,omitempty"`
}

// Key is the "component.phase" form used by assertions, e.g. "box.draw".
// Events without a component return an empty string.
func (e Event) Key() string {
	if e.Component == "" || e.Phase == "" {
		return ""
	}
	return e.Component + "." + e.Phase
}

// String renders the event on one line without timestamps.
func (e Event) String() string {
	switch e.Kind {
	case KindFrame:
		return fmt.Sprintf("%04d frame %d", e.Seq, e.Frame)
	case KindArm:
		return fmt.Sprintf("%04d arm after frame %d", e.Seq, e.Frame)
	case KindError:
		return fmt.Sprintf("%04d error frame %d: %s", e.Seq, e.Frame, e.Message)
	default:
		return fmt.Sprintf("%04d %s %s[%d] %s", e.Seq, e.Kind, e.Component, e.Index, e.Phase)
	}
}

// Text renders events one per line, with a trailing newline. The output is
// stable across runs and is what golden files store.
func Text(events []Event) string {
	var b strings.Builder
	for _, e := range events {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Filter returns the events of the given kinds, in order.
func Filter(events []Event, kinds ...Kind) []Event {
	var out []Event
	for _, e := range events {
		for _, k := range kinds {
			if e.Kind == k {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
