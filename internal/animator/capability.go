package animator

import (
	"fmt"
	"strings"
	"time"
)

// Measurer is implemented by components that take part in the measure phase.
type Measurer interface {
	Measure(now time.Time) error
}

// Transitioner is implemented by components that take part in the transition phase.
type Transitioner interface {
	Transition(now time.Time) error
}

// Animatable is implemented by components that take part in the animate phase.
type Animatable interface {
	Animate(now time.Time) error
}

// Drawer is implemented by components that take part in the draw phase.
type Drawer interface {
	Draw(now time.Time) error
}

// Redrawer is implemented by components that take part in the redraw phase.
type Redrawer interface {
	Redraw(now time.Time) error
}

// Declarer lets a component narrow the phases it opts into. Every declared
// phase must also be implemented.
type Declarer interface {
	Capabilities() Capabilities
}

// Namer gives a component a stable name for logs, errors and traces.
type Namer interface {
	Name() string
}

// Capabilities is a bitmask with one bit per Phase.
type Capabilities uint8

// CapabilitiesFor builds a mask from the given phases.
func CapabilitiesFor(phases ...Phase) Capabilities {
	var c Capabilities
	for _, p := range phases {
		c = c.With(p)
	}
	return c
}

// Has reports whether the phase bit is set.
func (c Capabilities) Has(p Phase) bool {
	return p.Valid() && c&(1<<uint(p)) != 0
}

// With returns c with the phase bit set.
func (c Capabilities) With(p Phase) Capabilities {
	if !p.Valid() {
		return c
	}
	return c | 1<<uint(p)
}

// Phases lists the set phases in execution order.
func (c Capabilities) Phases() []Phase {
	var out []Phase
	for _, p := range Phases() {
		if c.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// String renders the mask as "measure|draw", or "none".
func (c Capabilities) String() string {
	phases := c.Phases()
	if len(phases) == 0 {
		return "none"
	}
	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = p.String()
	}
	return strings.Join(names, "|")
}

// phaseFunc is a resolved phase operation of one component.
type phaseFunc func(now time.Time) error

// handlers holds the resolved operation per phase; nil means unsupported.
type handlers [phaseCount]phaseFunc

// resolveHandlers looks up the phase interfaces a component implements.
func resolveHandlers(component any) handlers {
	var h handlers
	if m, ok := component.(Measurer); ok {
		h[PhaseMeasure] = m.Measure
	}
	if t, ok := component.(Transitioner); ok {
		h[PhaseTransition] = t.Transition
	}
	if a, ok := component.(Animatable); ok {
		h[PhaseAnimate] = a.Animate
	}
	if d, ok := component.(Drawer); ok {
		h[PhaseDraw] = d.Draw
	}
	if r, ok := component.(Redrawer); ok {
		h[PhaseRedraw] = r.Redraw
	}
	return h
}

func (h *handlers) capabilities() Capabilities {
	var c Capabilities
	for i, fn := range h {
		if fn != nil {
			c = c.With(Phase(i))
		}
	}
	return c
}

// CapabilitiesOf reports the phases a component implements, ignoring any
// narrower Declarer set.
func CapabilitiesOf(component any) Capabilities {
	h := resolveHandlers(component)
	return h.capabilities()
}

// declaredCapabilities resolves the capability set a controller enforces.
func declaredCapabilities(component any, h *handlers) (Capabilities, error) {
	implemented := h.capabilities()
	d, ok := component.(Declarer)
	if !ok {
		return implemented, nil
	}
	declared := d.Capabilities()
	if missing := declared &^ implemented; missing != 0 {
		return 0, &RegistrationError{
			Code:      ErrCodeUndeclaredCapability,
			Message:   fmt.Sprintf("declares %s without implementing it", missing),
			Component: componentName(component),
		}
	}
	return declared, nil
}

// componentName names a component for diagnostics.
func componentName(component any) string {
	if n, ok := component.(Namer); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", component)
}
