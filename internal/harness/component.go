package harness

import (
	"errors"
	"fmt"
	"time"

	"github.com/roach88/animator/internal/animator"
)

// scripted is a component whose phase operations replay Behaviors.
//
// It implements every phase interface and narrows them with Declarer, so the
// animator enforces exactly the capabilities listed in the scenario.
type scripted struct {
	spec Component
	caps animator.Capabilities
	h    *Harness
}

var (
	_ animator.Measurer     = (*scripted)(nil)
	_ animator.Transitioner = (*scripted)(nil)
	_ animator.Animatable   = (*scripted)(nil)
	_ animator.Drawer       = (*scripted)(nil)
	_ animator.Redrawer     = (*scripted)(nil)
	_ animator.Declarer     = (*scripted)(nil)
	_ animator.Namer        = (*scripted)(nil)
)

func (s *scripted) Name() string                        { return s.spec.Name }
func (s *scripted) Capabilities() animator.Capabilities { return s.caps }
func (s *scripted) Measure(now time.Time) error         { return s.run(animator.PhaseMeasure) }
func (s *scripted) Transition(now time.Time) error      { return s.run(animator.PhaseTransition) }
func (s *scripted) Animate(now time.Time) error         { return s.run(animator.PhaseAnimate) }
func (s *scripted) Draw(now time.Time) error            { return s.run(animator.PhaseDraw) }
func (s *scripted) Redraw(now time.Time) error          { return s.run(animator.PhaseRedraw) }

// run performs the behaviors bound to phase for the current frame. The first
// failing behavior aborts the phase.
func (s *scripted) run(phase animator.Phase) error {
	frame := s.h.animator.Frames()
	for _, b := range s.spec.Behaviors {
		if b.On != phase.String() || (b.Frame != 0 && b.Frame != frame) {
			continue
		}
		if err := s.perform(b); err != nil {
			return err
		}
	}
	return nil
}

func (s *scripted) perform(b Behavior) error {
	target := b.Target
	if target == "" {
		target = s.spec.Name
	}

	switch b.Action {
	case BehaviorFail:
		msg := b.Message
		if msg == "" {
			msg = "scripted failure"
		}
		return errors.New(msg)
	case BehaviorRequest:
		return s.h.request(target, b.Phase)
	case BehaviorCancel:
		return s.h.cancel(target, b.Phase)
	case BehaviorDestroy:
		return s.h.destroy(target)
	case BehaviorRegister:
		return s.h.register(target)
	default:
		return fmt.Errorf("unknown behavior action %q", b.Action)
	}
}
