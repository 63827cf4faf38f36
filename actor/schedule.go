package actor

import (
	"context"
	"sync"
	"time"
)

// AbortHandle is an idempotent cancellation token for a running goroutine
// (spec.md §4.B). Spawn, StartTimer and StartRepeatTimer all return one.
type AbortHandle struct {
	cancel context.CancelFunc
	once   *sync.Once
}

func newAbortHandle(cancel context.CancelFunc) AbortHandle {
	return AbortHandle{cancel: cancel, once: &sync.Once{}}
}

// Abort cancels the associated goroutine at its next suspension point.
// Safe to call more than once.
func (a AbortHandle) Abort() {
	a.once.Do(a.cancel)
}

// Sleep suspends the calling goroutine for d, or returns early with
// ctx.Err() if ctx is cancelled first.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Spawn launches fn in its own goroutine under a stable, human-readable
// name (used only for log lines — Go has no native task naming) and
// returns a handle whose Abort cancels fn's context.
func Spawn(name string, fn func(ctx context.Context)) AbortHandle {
	ctx, cancel := context.WithCancel(context.Background())
	h := newAbortHandle(cancel)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				// Mirrors the actor run loop's panic containment:
				// a spawned task crashing must not take the process down.
				logger().Printf("spawned task %s panicked: %v", name, r)
			}
		}()
		fn(ctx)
	}()
	return h
}

// SpawnBlocking is Spawn's sibling for CPU-bound or blocking-syscall work;
// in Go both forms are plain goroutines, but the distinction is kept in
// the API because spec.md §4.E calls it out as a discipline actor authors
// must observe (never block a handler's own goroutine with such work).
func SpawnBlocking(name string, fn func(ctx context.Context)) AbortHandle {
	return Spawn(name, fn)
}

// RunWithTimeout runs fn and returns ErrTimeout(d) if it has not completed
// within d. fn must be cancellation-aware: RunWithTimeout does not stop fn
// running after the deadline, it only stops waiting for it.
func RunWithTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	cctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	resultCh := make(chan struct {
		v   T
		err error
	}, 1)
	go func() {
		v, err := fn(cctx)
		resultCh <- struct {
			v   T
			err error
		}{v, err}
	}()

	select {
	case r := <-resultCh:
		return r.v, r.err
	case <-cctx.Done():
		return zero, ErrTimeout(d)
	}
}
