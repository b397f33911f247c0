package animator

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// eventObserver renders observer callbacks as strings.
type eventObserver struct {
	events []string
	errs   []error
}

func (o *eventObserver) FrameStarted(frame int64, _ time.Time) {
	o.events = append(o.events, fmt.Sprintf("start %d", frame))
}

func (o *eventObserver) Dispatched(frame int64, p Phase, index int, component any) {
	o.events = append(o.events, fmt.Sprintf("dispatch %d %s %d %s", frame, p, index, componentName(component)))
}

func (o *eventObserver) Deferred(frame int64, index int, component any) {
	o.events = append(o.events, fmt.Sprintf("defer %d %d %s", frame, index, componentName(component)))
}

func (o *eventObserver) Armed(frame int64) {
	o.events = append(o.events, fmt.Sprintf("arm %d", frame))
}

func (o *eventObserver) FrameFinished(frame int64, err error) {
	o.events = append(o.events, fmt.Sprintf("finish %d %v", frame, err != nil))
	o.errs = append(o.errs, err)
}

func TestObserver_EventOrder(t *testing.T) {
	obs := &eventObserver{}
	a, p := newTestAnimator(WithObserver(obs))
	c, err := a.Register(newFull("a", &callLog{}))
	require.NoError(t, err)

	require.NoError(t, c.RequestTransition())
	require.NoError(t, c.RequestDraw())
	require.NoError(t, p.fire(testEpoch))
	require.NoError(t, p.fire(testEpoch))

	assert.Equal(t, []string{
		"arm 0",
		"start 1",
		"defer 1 0 a",
		"arm 1",
		"dispatch 1 draw 0 a",
		"finish 1 false",
		"start 2",
		"dispatch 2 transition 0 a",
		"finish 2 false",
	}, obs.events)
}

func TestErrors_Messages(t *testing.T) {
	ce := &CapabilityError{Phase: PhaseDraw, Component: "box"}
	assert.Equal(t, "can't request draw: component box does not implement draw", ce.Error())

	re := &RegistrationError{Code: ErrCodeNilComponent, Message: "component is nil"}
	assert.Equal(t, "NIL_COMPONENT: component is nil", re.Error())

	wrapped := fmt.Errorf("outer: %w", &ComponentError{Phase: PhaseMeasure, Err: assert.AnError})
	assert.True(t, IsComponentError(wrapped))
	assert.False(t, IsCapabilityError(wrapped))
	assert.False(t, IsRegistrationError(wrapped))
}

func TestObserver_PanicReportedAsFailedFrame(t *testing.T) {
	obs := &eventObserver{}
	a, p := newTestAnimator(WithObserver(obs))
	comp := newFull("a", &callLog{})
	comp.hooks[PhaseDraw] = func(time.Time) error { panic("kaboom") }
	c, err := a.Register(comp)
	require.NoError(t, err)
	require.NoError(t, c.RequestDraw())

	assert.PanicsWithValue(t, "kaboom", func() { _ = p.fire(testEpoch) })

	assert.Equal(t, []string{
		"arm 0",
		"start 1",
		"dispatch 1 draw 0 a",
		"arm 1",
		"finish 1 true",
	}, obs.events)

	require.Len(t, obs.errs, 1)
	var ce *ComponentError
	require.True(t, errors.As(obs.errs[0], &ce))
	assert.Equal(t, PhaseDraw, ce.Phase)
	assert.Equal(t, 0, ce.Index)
	assert.Equal(t, int64(1), ce.Frame)
	assert.Equal(t, "a", ce.Component)
	assert.EqualError(t, ce.Err, "panic: kaboom")
}
