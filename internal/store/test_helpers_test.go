package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/animator/internal/trace"
)

var testEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a passing run with minimal required fields.
func createTestRun(id, scenario string) Run {
	return Run{
		ID:        id,
		Scenario:  scenario,
		Pass:      true,
		Frames:    1,
		Schedules: 1,
		CreatedAt: testEpoch,
	}
}

// createTestTrace returns a one-frame trace: arm, frame, dispatch box.draw.
func createTestTrace() []trace.Event {
	return []trace.Event{
		{Seq: 1, Frame: 0, Kind: trace.KindArm, Index: -1},
		{Seq: 2, Frame: 1, Kind: trace.KindFrame, Index: -1, At: testEpoch},
		{Seq: 3, Frame: 1, Kind: trace.KindDispatch, Phase: "draw", Component: "box", Index: 0, At: testEpoch},
	}
}
