package animator

import (
	"fmt"
	"log/slog"
	"time"
)

// FrameFunc is a frame body. The primitive passes its frame timestamp; a
// non-nil error is a ComponentError from the frame that was just aborted.
type FrameFunc func(now time.Time) error

// Primitive is the host's "call me on the next frame" service.
//
// Schedule must invoke fn at most once, at the host's discretion. It may do so
// asynchronously (a display loop), on demand (a test double) or synchronously
// from inside Schedule.
type Primitive interface {
	Schedule(fn FrameFunc)
}

// Animator owns the controller registry and the single outstanding frame
// request.
//
// INVARIANTS:
//   - controllers[i].index == i after every Register and Unregister
//   - at most one request is outstanding with the primitive
//   - phases run in Phases() order; within a phase, registry order
//
// An Animator is not safe for concurrent use.
type Animator struct {
	primitive   Primitive
	controllers []*slot
	requested   bool

	pool     *Pool
	clock    *Clock
	observer Observer
	logger   *slog.Logger

	frameFn FrameFunc
	inFrame bool

	// current is the dispatch in progress, for reporting panics.
	current ComponentError
}

// Option configures an Animator.
type Option func(*Animator)

// WithPool shares a controller pool. By default every Animator has its own.
func WithPool(p *Pool) Option {
	return func(a *Animator) {
		if p != nil {
			a.pool = p
		}
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Animator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithObserver installs an observer for scheduling events.
func WithObserver(o Observer) Option {
	return func(a *Animator) {
		if o != nil {
			a.observer = o
		}
	}
}

// WithClock sets the frame sequence clock, e.g. to resume numbering.
func WithClock(c *Clock) Option {
	return func(a *Animator) {
		if c != nil {
			a.clock = c
		}
	}
}

// New creates an Animator that requests frames from p.
func New(p Primitive, opts ...Option) *Animator {
	a := &Animator{
		primitive: p,
		pool:      NewPool(0),
		clock:     NewClock(),
		observer:  NopObserver{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.frameFn = a.frame
	return a
}

// RequestFrame arms the next frame. While a request is outstanding further
// calls do nothing, so the primitive sees at most one Schedule per frame.
func (a *Animator) RequestFrame() {
	if a.requested {
		return
	}
	// Set before scheduling: a synchronous primitive clears it again.
	a.requested = true
	a.observer.Armed(a.clock.Current())
	a.primitive.Schedule(a.frameFn)
}

// Requested reports whether a frame request is outstanding.
func (a *Animator) Requested() bool {
	return a.requested
}

// Frames returns the number of frames run so far.
func (a *Animator) Frames() int64 {
	return a.clock.Current()
}

// Len returns the number of registered controllers.
func (a *Animator) Len() int {
	return len(a.controllers)
}

// Controller returns the controller at registry position i.
func (a *Animator) Controller(i int) *Controller {
	if i < 0 || i >= len(a.controllers) {
		return nil
	}
	return a.controllers[i].handle
}

// Register binds a component and returns its controller. Nothing is marked
// pending and no frame is requested.
//
// A component registered while a frame is running is first considered on the
// next frame.
func (a *Animator) Register(component any) (*Controller, error) {
	if component == nil {
		return nil, &RegistrationError{Code: ErrCodeNilComponent, Message: "component is nil"}
	}
	h := resolveHandlers(component)
	caps, err := declaredCapabilities(component, &h)
	if err != nil {
		return nil, err
	}

	s := a.pool.acquire()
	s.bind(component, h, caps, a, len(a.controllers))
	if a.inFrame {
		s.joined = a.clock.Current()
	}
	a.controllers = append(a.controllers, s)

	a.logger.Debug("component registered",
		"component", componentName(component),
		"index", s.index,
		"capabilities", caps.String(),
	)
	return s.handle, nil
}

// Unregister removes c in O(1) by moving the last controller into its slot.
// Registry order is not preserved. The removed controller is reset and
// returned to the pool; c stays detached afterwards.
func (a *Animator) Unregister(c *Controller) error {
	s := c.state()
	if s == nil || s.owner != a {
		return ErrDetached
	}

	index := s.index
	last := len(a.controllers) - 1
	moved := a.controllers[last]
	a.controllers[index] = moved
	moved.index = index
	a.controllers[last] = nil
	a.controllers = a.controllers[:last]

	a.logger.Debug("component unregistered",
		"component", componentName(s.component),
		"index", index,
	)

	s.owner = nil
	a.pool.release(s)
	return nil
}

// frame is the body handed to the primitive.
func (a *Animator) frame(now time.Time) (err error) {
	a.requested = false
	seq := a.clock.Next()
	a.inFrame = true
	a.observer.FrameStarted(seq, now)

	completed := false
	defer func() {
		a.inFrame = false
		if completed {
			a.observer.FrameFinished(seq, err)
			return
		}
		// Re-arm before the failure leaves the frame body.
		a.RequestFrame()
		if r := recover(); r != nil {
			perr := a.current
			perr.Err = fmt.Errorf("panic: %v", r)
			a.logger.Error("frame panicked", "frame", seq, "error", &perr)
			a.observer.FrameFinished(seq, &perr)
			panic(r)
		}
		a.observer.FrameFinished(seq, err)
	}()

	if err = a.runPhases(seq, now); err != nil {
		a.logger.Warn("frame aborted", "frame", seq, "error", err)
		return err
	}

	// Work skipped by a mid-frame swap removal must not be stranded.
	if a.hasPending() {
		a.RequestFrame()
	}
	completed = true

	a.logger.Debug("frame finished",
		"frame", seq,
		"controllers", len(a.controllers),
		"requested", a.requested,
	)
	return nil
}

// runPhases dispatches every pending phase in order. The registry length is
// re-read on each step so registrations and removals inside callbacks are
// tolerated.
func (a *Animator) runPhases(seq int64, now time.Time) error {
	for _, p := range Phases() {
		for i := 0; i < len(a.controllers); i++ {
			c := a.controllers[i]
			if !c.pending[p] || c.joined == seq {
				continue
			}

			if p == PhaseTransition && (c.pending[PhaseDraw] || c.pending[PhaseRedraw]) {
				// A draw this frame would overwrite the transition; run it later.
				a.observer.Deferred(seq, i, c.component)
				a.RequestFrame()
				continue
			}

			gen := c.gen
			if err := a.dispatch(seq, now, p, c, i); err != nil {
				return err
			}

			if p == PhaseAnimate {
				// Animation continues until cancelled.
				a.RequestFrame()
			} else if c.gen == gen {
				c.pending[p] = false
			}

			if i < len(a.controllers) && a.controllers[i] != c {
				// c was removed; its slot now holds a controller from the tail.
				i--
			}
		}
	}
	return nil
}

func (a *Animator) dispatch(seq int64, now time.Time, p Phase, c *slot, index int) error {
	component := c.component
	a.current = ComponentError{Phase: p, Index: index, Frame: seq, Component: componentName(component)}
	a.observer.Dispatched(seq, p, index, component)
	if err := c.handlers[p](now); err != nil {
		return &ComponentError{
			Phase:     p,
			Index:     index,
			Frame:     seq,
			Component: componentName(component),
			Err:       err,
		}
	}
	return nil
}

// hasPending reports whether any controller still has work. Every flag
// counts: a transition swapped behind the cursor was armed by a frame that
// has already fired.
func (a *Animator) hasPending() bool {
	for _, c := range a.controllers {
		for _, pending := range c.pending {
			if pending {
				return true
			}
		}
	}
	return false
}
