package trace

import (
	"fmt"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/animator/internal/animator"
)

// Recorder collects Events. It implements animator.Observer and, like the
// animator, is not safe for concurrent use.
type Recorder struct {
	events []Event
	seq    int64
	now    time.Time
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{events: []Event{}}
}

var _ animator.Observer = (*Recorder)(nil)

// Events returns the recorded events.
func (r *Recorder) Events() []Event {
	return r.events
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	return len(r.events)
}

// Reset discards all events and restarts Seq at 1.
func (r *Recorder) Reset() {
	r.events = []Event{}
	r.seq = 0
	r.now = time.Time{}
}

func (r *Recorder) add(e Event) {
	r.seq++
	e.Seq = r.seq
	r.events = append(r.events, e)
}

// FrameStarted implements animator.Observer.
func (r *Recorder) FrameStarted(frame int64, now time.Time) {
	r.now = now
	r.add(Event{Frame: frame, Kind: KindFrame, Index: -1, At: now})
}

// Dispatched implements animator.Observer.
func (r *Recorder) Dispatched(frame int64, phase animator.Phase, index int, component any) {
	r.add(Event{
		Frame:     frame,
		Kind:      KindDispatch,
		Phase:     phase.String(),
		Component: Name(component, index),
		Index:     index,
		At:        r.now,
	})
}

// Deferred implements animator.Observer.
func (r *Recorder) Deferred(frame int64, index int, component any) {
	r.add(Event{
		Frame:     frame,
		Kind:      KindDefer,
		Phase:     animator.PhaseTransition.String(),
		Component: Name(component, index),
		Index:     index,
		At:        r.now,
	})
}

// Armed implements animator.Observer.
func (r *Recorder) Armed(frame int64) {
	r.add(Event{Frame: frame, Kind: KindArm, Index: -1, At: r.now})
}

// FrameFinished implements animator.Observer. Only failed frames are recorded.
func (r *Recorder) FrameFinished(frame int64, err error) {
	if err == nil {
		return
	}
	r.add(Event{Frame: frame, Kind: KindError, Index: -1, At: r.now, Message: err.Error()})
}

// Name returns the NFC-normalized name of a component, falling back to its
// type and registry index.
func Name(component any, index int) string {
	if n, ok := component.(animator.Namer); ok {
		return norm.NFC.String(n.Name())
	}
	return fmt.Sprintf("%T#%d", component, index)
}
