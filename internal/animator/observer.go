package animator

import "time"

// Observer receives scheduling events. All calls happen on the animator's
// goroutine, synchronously, in the order the events occur.
type Observer interface {
	// FrameStarted is called after the request flag is cleared.
	FrameStarted(frame int64, now time.Time)

	// Dispatched is called just before a phase operation runs.
	Dispatched(frame int64, phase Phase, index int, component any)

	// Deferred is called when a pending transition is postponed.
	Deferred(frame int64, index int, component any)

	// Armed is called when a request is placed with the primitive.
	// frame is the current frame number, 0 before the first frame.
	Armed(frame int64)

	// FrameFinished is called when the frame body returns; err is the
	// ComponentError that aborted it, if any.
	FrameFinished(frame int64, err error)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) FrameStarted(int64, time.Time)     {}
func (NopObserver) Dispatched(int64, Phase, int, any) {}
func (NopObserver) Deferred(int64, int, any)          {}
func (NopObserver) Armed(int64)                       {}
func (NopObserver) FrameFinished(int64, error)        {}
