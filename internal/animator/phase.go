package animator

import "fmt"

// Phase is one of the five fixed stages of a frame, declared in execution order.
type Phase int

const (
	// PhaseMeasure reads layout before anything is written.
	PhaseMeasure Phase = iota
	// PhaseTransition applies a state change unless a draw supersedes it this frame.
	PhaseTransition
	// PhaseAnimate advances continuous animation; it stays pending until cancelled.
	PhaseAnimate
	// PhaseDraw renders the component.
	PhaseDraw
	// PhaseRedraw re-renders after draw.
	PhaseRedraw
)

// phaseCount is the number of phases in a frame.
const phaseCount = 5

var phaseNames = [phaseCount]string{
	PhaseMeasure:    "measure",
	PhaseTransition: "transition",
	PhaseAnimate:    "animate",
	PhaseDraw:       "draw",
	PhaseRedraw:     "redraw",
}

// String returns the lower-case phase name.
func (p Phase) String() string {
	if p.Valid() {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Valid reports whether p is one of the five declared phases.
func (p Phase) Valid() bool {
	return p >= PhaseMeasure && p <= PhaseRedraw
}

// Phases returns all phases in execution order.
func Phases() []Phase {
	return []Phase{PhaseMeasure, PhaseTransition, PhaseAnimate, PhaseDraw, PhaseRedraw}
}

// ParsePhase converts a phase name back into a Phase.
func ParsePhase(name string) (Phase, error) {
	for i, n := range phaseNames {
		if n == name {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", name)
}
