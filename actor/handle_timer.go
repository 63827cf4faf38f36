package actor

import (
	"context"
	"time"
)

// sendSystem and trySendSystem let the actor system and timer goroutines
// inject system messages without exposing systemMessage outside the
// package.
func (h Handle[M]) sendSystem(sys systemMessage) error {
	return h.mb.Send(envelope{sys: sys})
}

func (h Handle[M]) trySendSystem(sys systemMessage) error {
	return h.mb.TrySend(envelope{sys: sys})
}

// StartRepeatTimer arranges for Timer(id) system messages to be delivered
// to this actor at period cadence, optionally firing once immediately
// (spec.md §4.B, §4.G). A tick that finds the mailbox full is skipped; the
// ticker stops once the mailbox is closed. The returned AbortHandle stops the ticker; actors
// are expected to store it in their own state and Abort it from their
// _Terminate_ hook.
func (h Handle[M]) StartRepeatTimer(id int32, period time.Duration, initialTick bool) (AbortHandle, error) {
	if h.mb.IsClosed() {
		return AbortHandle{}, ErrClosed
	}
	ctx, cancel := context.WithCancel(context.Background())
	ah := newAbortHandle(cancel)

	go func() {
		if initialTick {
			if err := h.trySendSystem(msgTimer{id: id}); err == ErrClosed {
				return
			}
		}
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := h.trySendSystem(msgTimer{id: id}); err == ErrClosed {
					return
				}
			}
		}
	}()
	return ah, nil
}

// StartTimer arranges for a single Timer(id) message after delay.
func (h Handle[M]) StartTimer(id int32, delay time.Duration) (AbortHandle, error) {
	if h.mb.IsClosed() {
		return AbortHandle{}, ErrClosed
	}
	ctx, cancel := context.WithCancel(context.Background())
	ah := newAbortHandle(cancel)

	go func() {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_ = h.trySendSystem(msgTimer{id: id})
		}
	}()
	return ah, nil
}
