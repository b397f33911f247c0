package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/animator/internal/trace"
)

func TestWriteRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := createTestRun("run-0001", "measure_then_draw")
	run.Pass = false
	run.Errors = []string{"steps[2] frame: expected component error, got none"}

	seq, err := s.WriteRun(ctx, run, createTestTrace())
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	got, err := s.ReadRun(ctx, "run-0001")
	require.NoError(t, err)
	assert.Equal(t, "measure_then_draw", got.Scenario)
	assert.False(t, got.Pass)
	assert.Equal(t, int64(1), got.Frames)
	assert.Equal(t, 1, got.Schedules)
	assert.Equal(t, run.Errors, got.Errors)
	assert.Equal(t, int64(1), got.Seq)
	assert.True(t, got.CreatedAt.Equal(testEpoch))

	events, err := s.ReadEvents(ctx, "run-0001")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, trace.Text(createTestTrace()), trace.Text(events))
	assert.Equal(t, "box.draw", events[2].Key())
	assert.True(t, events[2].At.Equal(testEpoch))
	assert.Equal(t, -1, events[0].Index)
}

func TestWriteRun_AssignsIncreasingSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"b", "a", "c"} {
		seq, err := s.WriteRun(ctx, createTestRun(id, "s"), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), seq)
	}

	runs, err := s.ListRuns(ctx, "")
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "b", runs[0].ID, "runs are listed by seq, not ID")
	assert.Equal(t, "a", runs[1].ID)
	assert.Equal(t, "c", runs[2].ID)
}

func TestWriteRun_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.WriteRun(ctx, createTestRun("dup", "s"), createTestTrace())
	require.NoError(t, err)

	changed := createTestRun("dup", "other")
	second, err := s.WriteRun(ctx, changed, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	got, err := s.ReadRun(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, "s", got.Scenario, "existing run must not be overwritten")

	events, err := s.ReadEvents(ctx, "dup")
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestWriteRun_RejectsUnknownKind(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	events := []trace.Event{{Seq: 1, Kind: trace.Kind("bogus")}}
	_, err := s.WriteRun(ctx, createTestRun("bad", "s"), events)
	require.Error(t, err)

	_, err = s.ReadRun(ctx, "bad")
	assert.Equal(t, sql.ErrNoRows, err, "failed write must roll back the run row")
}

func TestWriteRun_NilErrorsStoredAsEmpty(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.WriteRun(ctx, createTestRun("clean", "s"), nil)
	require.NoError(t, err)

	got, err := s.ReadRun(ctx, "clean")
	require.NoError(t, err)
	assert.NotNil(t, got.Errors)
	assert.Empty(t, got.Errors)
}

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "missing")
	if err != sql.ErrNoRows {
		t.Errorf("ReadRun() error = %v, want sql.ErrNoRows", err)
	}
}

func TestLatestRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.LatestRun(ctx)
	assert.Equal(t, sql.ErrNoRows, err)

	_, err = s.WriteRun(ctx, createTestRun("first", "s"), nil)
	require.NoError(t, err)
	_, err = s.WriteRun(ctx, createTestRun("second", "s"), nil)
	require.NoError(t, err)

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", latest.ID)
	assert.Equal(t, int64(2), latest.Seq)
}

func TestListRuns_FiltersByScenario(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, r := range []Run{
		createTestRun("1", "alpha"),
		createTestRun("2", "beta"),
		createTestRun("3", "alpha"),
	} {
		_, err := s.WriteRun(ctx, r, nil)
		require.NoError(t, err)
	}

	alpha, err := s.ListRuns(ctx, "alpha")
	require.NoError(t, err)
	require.Len(t, alpha, 2)
	assert.Equal(t, "1", alpha[0].ID)
	assert.Equal(t, "3", alpha[1].ID)

	none, err := s.ListRuns(ctx, "gamma")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestReadEvents_EmptyForUnknownRun(t *testing.T) {
	s := createTestStore(t)

	events, err := s.ReadEvents(context.Background(), "nope")
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestDeleteRun_CascadesEvents(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.WriteRun(ctx, createTestRun("gone", "s"), createTestTrace())
	require.NoError(t, err)

	_, err = s.DB().ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, "gone")
	require.NoError(t, err)

	var count int
	require.NoError(t, s.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE run_id = ?`, "gone").Scan(&count))
	assert.Equal(t, 0, count)
}
