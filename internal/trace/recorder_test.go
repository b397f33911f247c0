package trace

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/animator/internal/animator"
	"github.com/roach88/animator/internal/testutil"
)

type named struct{ name string }

func (n named) Name() string { return n.name }

func (n named) Draw(time.Time) error { return nil }

func (n named) Transition(time.Time) error { return nil }

func TestRecorder_RecordsFramePipeline(t *testing.T) {
	prim := testutil.NewManualPrimitive()
	rec := NewRecorder()
	a := animator.New(prim, animator.WithObserver(rec))

	c, err := a.Register(named{name: "box"})
	require.NoError(t, err)
	require.NoError(t, c.RequestTransition())
	require.NoError(t, c.RequestDraw())

	clock := testutil.NewStepClock(time.Time{}, time.Millisecond)
	_, err = prim.FireN(5, clock)
	require.NoError(t, err)

	want := "0001 arm after frame 0\n" +
		"0002 frame 1\n" +
		"0003 defer box[0] transition\n" +
		"0004 arm after frame 1\n" +
		"0005 dispatch box[0] draw\n" +
		"0006 frame 2\n" +
		"0007 dispatch box[0] transition\n"
	assert.Equal(t, want, Text(rec.Events()))

	dispatches := Filter(rec.Events(), KindDispatch)
	require.Len(t, dispatches, 2)
	assert.Equal(t, "box.draw", dispatches[0].Key())
	assert.Equal(t, testutil.Epoch, dispatches[0].At)
	assert.Equal(t, testutil.Epoch.Add(time.Millisecond), dispatches[1].At)
}

func TestRecorder_RecordsErrors(t *testing.T) {
	rec := NewRecorder()
	rec.FrameStarted(3, testutil.Epoch)
	rec.FrameFinished(3, nil)
	rec.FrameFinished(3, errors.New("boom"))

	require.Equal(t, 2, rec.Len())
	assert.Equal(t, "0002 error frame 3: boom", rec.Events()[1].String())

	rec.Reset()
	assert.Equal(t, 0, rec.Len())
	rec.Armed(0)
	assert.Equal(t, int64(1), rec.Events()[0].Seq)
}

func TestName(t *testing.T) {
	// "é" composed two ways must record identically.
	decomposed := named{name: "cafe\u0301"}
	composed := named{name: "caf\u00e9"}

	assert.Equal(t, Name(composed, 0), Name(decomposed, 0))
	assert.Equal(t, "struct {}#4", Name(struct{}{}, 4))
}

func TestEvent_Key(t *testing.T) {
	assert.Equal(t, "", Event{Kind: KindFrame}.Key())
	assert.Equal(t, "a.measure", Event{Component: "a", Phase: "measure"}.Key())
}

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}
	first := gen.Generate()
	second := gen.Generate()

	assert.Len(t, first, 36)
	assert.NotEqual(t, first, second)

	parsed, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}
