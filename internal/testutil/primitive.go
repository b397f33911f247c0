package testutil

import (
	"errors"
	"time"

	"github.com/roach88/animator/internal/animator"
)

// ManualPrimitive is a frame primitive that fires only when told to.
//
// Schedule records the callback; Fire runs every callback recorded before it
// was called, each exactly once. Callbacks scheduled while firing wait for the
// next Fire, like a display refresh would.
type ManualPrimitive struct {
	pending   []animator.FrameFunc
	schedules int
	fired     int
}

// NewManualPrimitive creates an idle primitive.
func NewManualPrimitive() *ManualPrimitive {
	return &ManualPrimitive{}
}

// Schedule implements animator.Primitive.
func (m *ManualPrimitive) Schedule(fn animator.FrameFunc) {
	m.schedules++
	m.pending = append(m.pending, fn)
}

// Schedules returns how many times Schedule was called.
func (m *ManualPrimitive) Schedules() int {
	return m.schedules
}

// Fired returns how many callbacks have run.
func (m *ManualPrimitive) Fired() int {
	return m.fired
}

// Pending reports whether a callback is waiting to fire.
func (m *ManualPrimitive) Pending() bool {
	return len(m.pending) > 0
}

// Fire runs the waiting callbacks with now. Errors are joined.
func (m *ManualPrimitive) Fire(now time.Time) error {
	batch := m.pending
	m.pending = nil
	var errs []error
	for _, fn := range batch {
		m.fired++
		if err := fn(now); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FireN fires n times with timestamps from clock, stopping at the first
// error or when nothing is pending. It returns the number of frames fired.
func (m *ManualPrimitive) FireN(n int, clock interface{ Now() time.Time }) (int, error) {
	for i := 0; i < n; i++ {
		if !m.Pending() {
			return i, nil
		}
		if err := m.Fire(clock.Now()); err != nil {
			return i + 1, err
		}
	}
	return n, nil
}

// SyncPrimitive invokes the callback from inside Schedule. Errors are kept
// in Errs.
type SyncPrimitive struct {
	Clock interface{ Now() time.Time }
	Errs  []error
}

// Schedule implements animator.Primitive.
func (s *SyncPrimitive) Schedule(fn animator.FrameFunc) {
	now := Epoch
	if s.Clock != nil {
		now = s.Clock.Now()
	}
	if err := fn(now); err != nil {
		s.Errs = append(s.Errs, err)
	}
}
