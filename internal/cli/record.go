package cli

import (
	"context"
	"time"

	"github.com/roach88/animator/internal/harness"
	"github.com/roach88/animator/internal/store"
	"github.com/roach88/animator/internal/trace"
)

// recorder writes harness results to a store under generated run IDs.
type recorder struct {
	store *store.Store
	ids   trace.IDGenerator
	now   func() time.Time
}

// openRecorder opens dbPath. A nil generator means UUIDv7 IDs.
func openRecorder(dbPath string, ids trace.IDGenerator) (*recorder, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = trace.UUIDv7Generator{}
	}
	return &recorder{store: st, ids: ids, now: time.Now}, nil
}

// record stores result and returns its run ID.
func (r *recorder) record(ctx context.Context, result *harness.Result) (string, error) {
	id := r.ids.Generate()
	_, err := r.store.WriteRun(ctx, store.Run{
		ID:        id,
		Scenario:  result.Name,
		Pass:      result.Pass,
		Frames:    result.Frames,
		Schedules: result.Schedules,
		Errors:    result.Errors,
		CreatedAt: r.now(),
	}, result.Trace)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *recorder) Close() error {
	return r.store.Close()
}
