package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/comalice/statestack"
	"github.com/comalice/statestack/observability"
)

// Event types emitted by a Runner.
const (
	EventRunnerStarted  observability.EventType = "runner.started"
	EventRunnerFinished observability.EventType = "runner.finished"
	EventRunnerPanic    observability.EventType = "runner.panic"
)

// Reasons reported in the runner.finished event.
const (
	ReasonStopped   = "stopped"   // machine emptied its own stack
	ReasonTickLimit = "tick_limit" // MaxTicks reached
	ReasonCancelled = "cancelled" // context done
	ReasonPanic     = "panic"
)

// Option configures a Runner.
type Option func(*runnerOptions)

type runnerOptions struct {
	observer observability.Observer
	source   string
}

// WithObserver sends runner events to obs.
func WithObserver(obs observability.Observer) Option {
	return func(o *runnerOptions) {
		o.observer = obs
	}
}

// WithSource overrides the event source. Defaults to the machine ID.
func WithSource(source string) Option {
	return func(o *runnerOptions) {
		o.source = source
	}
}

// Runner calls Update on a machine once per tick.
type Runner[S any] struct {
	machine  *statestack.Machine[S]
	data     *S
	tickRate time.Duration
	maxTicks uint64

	observer observability.Observer
	source   string

	ticks   atomic.Uint64
	running atomic.Bool

	// Start/Stop bookkeeping
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// NewRunner creates a runner for machine over data. Seed the machine with
// its first state before running it.
func NewRunner[S any](machine *statestack.Machine[S], data *S, cfg Config, opts ...Option) *Runner[S] {
	cfg = cfg.WithDefaults()

	o := runnerOptions{source: machine.ID()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Runner[S]{
		machine:  machine,
		data:     data,
		tickRate: cfg.TickRate,
		maxTicks: cfg.MaxTicks,
		observer: o.observer,
		source:   o.source,
	}
}

// Run drives the machine on the calling goroutine until it stops, MaxTicks
// is reached or ctx is done. Cancellation drains the machine and returns
// ctx.Err().
func (r *Runner[S]) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer r.running.Store(false)

	return r.loop(ctx)
}

// Start runs the machine in a new goroutine.
func (r *Runner[S]) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	r.err = nil

	go func() {
		defer close(done)
		defer cancel()

		err := r.loop(runCtx)

		r.mu.Lock()
		r.err = err
		r.mu.Unlock()
		r.running.Store(false)
	}()

	return nil
}

// Stop cancels a runner started with Start and waits for it to drain the
// machine. Cancellation itself is not reported as an error.
func (r *Runner[S]) Stop() error {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	if done == nil {
		return ErrNotRunning
	}

	cancel()
	<-done

	err := r.result()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Wait blocks until a runner started with Start finishes and returns what
// Run would have returned.
func (r *Runner[S]) Wait() error {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()

	if done == nil {
		return ErrNotRunning
	}

	<-done
	return r.result()
}

// Ticks returns the number of completed ticks across all runs.
func (r *Runner[S]) Ticks() uint64 {
	return r.ticks.Load()
}

// Running reports whether the tick loop is active.
func (r *Runner[S]) Running() bool {
	return r.running.Load()
}

func (r *Runner[S]) result() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// loop is the tick loop shared by Run and Start.
func (r *Runner[S]) loop(ctx context.Context) (err error) {
	ticker := time.NewTicker(r.tickRate)
	defer ticker.Stop()

	var n uint64
	reason := ReasonStopped

	r.emit(ctx, EventRunnerStarted, observability.LevelInfo, map[string]any{
		"tick_rate": r.tickRate.String(),
		"max_ticks": r.maxTicks,
	})
	defer func() {
		r.emit(ctx, EventRunnerFinished, observability.LevelInfo, map[string]any{
			"reason": reason,
			"ticks":  n,
		})
	}()

	for r.machine.IsRunning() {
		select {
		case <-ctx.Done():
			reason = ReasonCancelled
			r.machine.Stop(r.data)
			return ctx.Err()
		case <-ticker.C:
		}

		if err := r.tick(); err != nil {
			reason = ReasonPanic
			r.emit(ctx, EventRunnerPanic, observability.LevelError, map[string]any{
				"error": err.Error(),
				"tick":  n + 1,
			})
			return err
		}
		n++

		if r.maxTicks > 0 && n >= r.maxTicks {
			reason = ReasonTickLimit
			r.machine.Stop(r.data)
			return nil
		}
	}

	return nil
}

// tick runs one update, turning a panic in a state hook into an error.
func (r *Runner[S]) tick() (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: tick %d: %v", ErrStatePanic, r.ticks.Load()+1, p)
		}
	}()

	r.machine.Update(r.data)
	r.ticks.Inc()
	return nil
}

func (r *Runner[S]) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	if r.observer == nil {
		return
	}
	r.observer.OnEvent(ctx, observability.Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    r.source,
		Data:      data,
	})
}
