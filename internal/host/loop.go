package host

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roach88/animator/internal/animator"
)

// DefaultInterval approximates one 60Hz display refresh.
const DefaultInterval = time.Second / 60

// ErrStopped is returned by Submit and Call after the loop has stopped.
var ErrStopped = errors.New("frame loop stopped")

// Loop is a ticker-driven frame primitive. It implements animator.Primitive.
//
// Thread-safety model:
//   - Schedule, Submit, Call, Stop and the counters: safe from any goroutine
//   - Run: exactly one goroutine; frame callbacks and tasks run there
type Loop struct {
	interval time.Duration
	clock    Clock
	logger   *slog.Logger
	onError  func(error)
	maxTicks int64

	mu        sync.Mutex
	callbacks []animator.FrameFunc

	tasks  *taskQueue
	ticks  atomic.Int64
	fired  atomic.Int64
	failed atomic.Int64
}

// Option configures a Loop.
type Option func(*Loop)

// WithInterval sets the tick interval. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithFPS sets the tick interval from a refresh rate.
func WithFPS(fps int) Option {
	return func(l *Loop) {
		if fps > 0 {
			l.interval = time.Second / time.Duration(fps)
		}
	}
}

// WithClock sets the timestamp source. Default: RealClock.
func WithClock(c Clock) Option {
	return func(l *Loop) {
		if c != nil {
			l.clock = c
		}
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithErrorHandler receives every error returned by a frame callback.
func WithErrorHandler(fn func(error)) Option {
	return func(l *Loop) {
		l.onError = fn
	}
}

// WithMaxTicks makes Run return after n ticks. Zero means unlimited.
func WithMaxTicks(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.maxTicks = int64(n)
		}
	}
}

// NewLoop creates a stopped loop; call Run to start ticking.
func NewLoop(opts ...Option) *Loop {
	l := &Loop{
		interval: DefaultInterval,
		clock:    RealClock{},
		logger:   slog.Default(),
		tasks:    newTaskQueue(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Schedule implements animator.Primitive: fn fires once on the next tick.
func (l *Loop) Schedule(fn animator.FrameFunc) {
	l.mu.Lock()
	l.callbacks = append(l.callbacks, fn)
	l.mu.Unlock()
}

// Submit queues fn to run on the loop goroutine.
func (l *Loop) Submit(fn func()) error {
	if !l.tasks.push(fn) {
		return ErrStopped
	}
	return nil
}

// Call runs fn on the loop goroutine and waits for it to return.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if err := l.Submit(func() {
		defer close(done)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run ticks until ctx is cancelled, Stop is called, or the tick limit is
// reached. Returns ctx.Err() on cancellation, nil otherwise.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("frame loop starting", "interval", l.interval)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("frame loop stopping: context cancelled", "ticks", l.ticks.Load())
			l.tasks.close()
			return ctx.Err()

		case _, ok := <-l.tasks.wait():
			l.runTasks()
			if !ok {
				l.logger.Info("frame loop stopping: stopped", "ticks", l.ticks.Load())
				return nil
			}

		case <-ticker.C:
			l.tick()
			if l.maxTicks > 0 && l.ticks.Load() >= l.maxTicks {
				l.logger.Info("frame loop stopping: tick limit reached", "ticks", l.ticks.Load())
				l.tasks.close()
				return nil
			}
		}
	}
}

// Stop makes Run return after the queued tasks have run.
func (l *Loop) Stop() {
	l.tasks.close()
}

// Ticks returns the number of ticks so far.
func (l *Loop) Ticks() int64 { return l.ticks.Load() }

// Fired returns the number of frame callbacks invoked.
func (l *Loop) Fired() int64 { return l.fired.Load() }

// Failed returns the number of frame callbacks that returned an error.
func (l *Loop) Failed() int64 { return l.failed.Load() }

// Pending reports whether a frame callback is waiting for the next tick.
func (l *Loop) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.callbacks) > 0
}

func (l *Loop) runTasks() {
	for _, fn := range l.tasks.drain() {
		fn()
	}
}

// tick runs one refresh: queued tasks first, then the frame callbacks
// scheduled before this point.
func (l *Loop) tick() {
	l.ticks.Add(1)
	l.runTasks()

	l.mu.Lock()
	batch := l.callbacks
	l.callbacks = nil
	l.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	now := l.clock.Now()
	for _, fn := range batch {
		l.fired.Add(1)
		if err := fn(now); err != nil {
			l.failed.Add(1)
			l.logger.Error("frame failed", "tick", l.ticks.Load(), "error", err)
			if l.onError != nil {
				l.onError(err)
			}
		}
	}
}
