package animator

import (
	"io"
	"log/slog"
	"time"
)

var testEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// stubPrimitive records scheduled frame bodies and fires them on demand.
type stubPrimitive struct {
	pending   []FrameFunc
	schedules int
}

func (s *stubPrimitive) Schedule(fn FrameFunc) {
	s.schedules++
	s.pending = append(s.pending, fn)
}

// fire runs the waiting frame bodies once and returns the first error.
func (s *stubPrimitive) fire(now time.Time) error {
	batch := s.pending
	s.pending = nil
	var first error
	for _, fn := range batch {
		if err := fn(now); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// callLog collects "name.phase" entries across components.
type callLog struct {
	calls []string
}

func (l *callLog) add(name string, p Phase) {
	l.calls = append(l.calls, name+"."+p.String())
}

// fullComponent implements every phase. Hooks run after the call is logged.
type fullComponent struct {
	name  string
	log   *callLog
	hooks map[Phase]func(now time.Time) error
	times []time.Time
}

func newFull(name string, log *callLog) *fullComponent {
	return &fullComponent{name: name, log: log, hooks: map[Phase]func(time.Time) error{}}
}

func (c *fullComponent) Name() string { return c.name }

func (c *fullComponent) run(p Phase, now time.Time) error {
	c.log.add(c.name, p)
	c.times = append(c.times, now)
	if h := c.hooks[p]; h != nil {
		return h(now)
	}
	return nil
}

func (c *fullComponent) Measure(now time.Time) error    { return c.run(PhaseMeasure, now) }
func (c *fullComponent) Transition(now time.Time) error { return c.run(PhaseTransition, now) }
func (c *fullComponent) Animate(now time.Time) error    { return c.run(PhaseAnimate, now) }
func (c *fullComponent) Draw(now time.Time) error       { return c.run(PhaseDraw, now) }
func (c *fullComponent) Redraw(now time.Time) error     { return c.run(PhaseRedraw, now) }

// measureDrawComponent implements only measure and draw.
type measureDrawComponent struct {
	name string
	log  *callLog
}

func (c *measureDrawComponent) Name() string { return c.name }

func (c *measureDrawComponent) Measure(time.Time) error {
	c.log.add(c.name, PhaseMeasure)
	return nil
}

func (c *measureDrawComponent) Draw(time.Time) error {
	c.log.add(c.name, PhaseDraw)
	return nil
}

// declaringComponent narrows a full component to a declared set.
type declaringComponent struct {
	*fullComponent
	declared Capabilities
}

func (c *declaringComponent) Capabilities() Capabilities { return c.declared }

// lyingComponent declares redraw but only implements draw.
type lyingComponent struct{}

func (lyingComponent) Draw(time.Time) error { return nil }

func (lyingComponent) Capabilities() Capabilities {
	return CapabilitiesFor(PhaseDraw, PhaseRedraw)
}

func newTestAnimator(opts ...Option) (*Animator, *stubPrimitive) {
	p := &stubPrimitive{}
	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	return New(p, opts...), p
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
