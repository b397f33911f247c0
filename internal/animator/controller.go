package animator

// slot is the registry entry behind a Controller. Slots are pooled; handles
// are not, so a handle from an earlier binding never reaches a reused slot.
type slot struct {
	component any
	owner     *Animator
	index     int

	caps     Capabilities
	handlers handlers
	pending  [phaseCount]bool

	// gen changes on every bind; joined is the frame a mid-frame
	// registration happened in.
	gen    uint64
	joined int64

	handle *Controller
}

// bind attaches a reset slot to a component and issues a new handle.
func (s *slot) bind(component any, h handlers, caps Capabilities, owner *Animator, index int) {
	s.component = component
	s.owner = owner
	s.index = index
	s.caps = caps
	s.handlers = h
	s.pending = [phaseCount]bool{}
	s.gen++
	s.joined = 0
	s.handle = &Controller{s: s, gen: s.gen}
}

// reset clears every binding.
func (s *slot) reset() {
	s.component = nil
	s.owner = nil
	s.index = -1
	s.caps = 0
	s.handlers = handlers{}
	s.pending = [phaseCount]bool{}
	s.joined = 0
	s.handle = nil
}

// Controller holds one component's pending phases.
//
// A Controller is obtained from Animator.Register and is valid until Destroy.
// Request and Cancel may be called at any time on the animator's goroutine,
// including from inside a phase operation: a request takes effect in the
// current frame if its phase has not run yet, otherwise in the next one.
//
// After Destroy the handle stays detached for good, even once its pooled
// state is bound to another component.
type Controller struct {
	s   *slot
	gen uint64
}

// state returns the slot c is bound to, or nil once c is destroyed.
func (c *Controller) state() *slot {
	if c == nil || c.s == nil || c.s.gen != c.gen || c.s.owner == nil {
		return nil
	}
	return c.s
}

// Component returns the bound component, or nil once destroyed.
func (c *Controller) Component() any {
	if s := c.state(); s != nil {
		return s.component
	}
	return nil
}

// Index returns the controller's registry position, or -1 once destroyed.
func (c *Controller) Index() int {
	if s := c.state(); s != nil {
		return s.index
	}
	return -1
}

// Capabilities returns the phases this controller accepts requests for.
func (c *Controller) Capabilities() Capabilities {
	if s := c.state(); s != nil {
		return s.caps
	}
	return 0
}

// Attached reports whether the controller is still registered.
func (c *Controller) Attached() bool {
	return c.state() != nil
}

// Pending reports whether a phase is pending.
func (c *Controller) Pending(p Phase) bool {
	s := c.state()
	return s != nil && p.Valid() && s.pending[p]
}

// Request marks a phase pending and arms a frame.
//
// It fails with a CapabilityError when the component did not opt into the
// phase, and with ErrDetached after Destroy. Failed requests change nothing.
func (c *Controller) Request(p Phase) error {
	s := c.state()
	if s == nil {
		return ErrDetached
	}
	if !s.caps.Has(p) {
		return &CapabilityError{Phase: p, Component: componentName(s.component)}
	}
	s.pending[p] = true
	s.owner.RequestFrame()
	return nil
}

// Cancel clears a pending phase. An already armed frame still fires.
func (c *Controller) Cancel(p Phase) {
	if s := c.state(); s != nil && p.Valid() {
		s.pending[p] = false
	}
}

// RequestMeasure schedules the measure phase.
func (c *Controller) RequestMeasure() error { return c.Request(PhaseMeasure) }

// CancelMeasure withdraws a pending measure.
func (c *Controller) CancelMeasure() { c.Cancel(PhaseMeasure) }

// RequestTransition schedules the transition phase. It is deferred to a
// later frame while draw or redraw is pending on this controller.
func (c *Controller) RequestTransition() error { return c.Request(PhaseTransition) }

// CancelTransition withdraws a pending transition.
func (c *Controller) CancelTransition() { c.Cancel(PhaseTransition) }

// RequestAnimation starts continuous animation. Animate runs every frame
// until CancelAnimation.
func (c *Controller) RequestAnimation() error { return c.Request(PhaseAnimate) }

// CancelAnimation stops continuous animation.
func (c *Controller) CancelAnimation() { c.Cancel(PhaseAnimate) }

// RequestDraw schedules the draw phase.
func (c *Controller) RequestDraw() error { return c.Request(PhaseDraw) }

// CancelDraw withdraws a pending draw.
func (c *Controller) CancelDraw() { c.Cancel(PhaseDraw) }

// RequestRedraw schedules the redraw phase.
func (c *Controller) RequestRedraw() error { return c.Request(PhaseRedraw) }

// CancelRedraw withdraws a pending redraw.
func (c *Controller) CancelRedraw() { c.Cancel(PhaseRedraw) }

// Destroy unregisters the controller from its animator.
func (c *Controller) Destroy() error {
	s := c.state()
	if s == nil {
		return ErrDetached
	}
	return s.owner.Unregister(c)
}
