package actor

import "sync"

// mailbox is the bounded MPSC channel backing one actor. spec.md §4.A asks
// for a single interface behind which two interchangeable implementations
// could sit (one closable, one not); this module resolves that Open
// Question by picking a plain Go channel as the one backend and making
// Close best-effort and idempotent (see DESIGN.md), so callers never have
// to know which backend they got — they only ever see ErrClosed.
//
// Grounded on infra/actor/actor.go's Tell/Ask, which already do the
// non-blocking-then-blocking select dance this type formalizes into
// TrySend/Send.
type mailbox struct {
	ch       chan envelope
	closedCh chan struct{}
	once     sync.Once
}

func newMailbox(bound int) *mailbox {
	return &mailbox{
		ch:       make(chan envelope, bound),
		closedCh: make(chan struct{}),
	}
}

// Send awaits mailbox capacity (spec.md's primary backpressure mechanism),
// racing against the mailbox being closed out from under the sender.
func (m *mailbox) Send(e envelope) error {
	select {
	case m.ch <- e:
		return nil
	case <-m.closedCh:
		return ErrClosed
	}
}

// TrySend fails immediately rather than waiting for capacity.
func (m *mailbox) TrySend(e envelope) error {
	select {
	case <-m.closedCh:
		return ErrClosed
	default:
	}
	select {
	case m.ch <- e:
		return nil
	case <-m.closedCh:
		return ErrClosed
	default:
		return ErrFull
	}
}

// recv is used only by the actor's own run loop.
func (m *mailbox) recv() <-chan envelope { return m.ch }

// IsClosed reports whether the mailbox will no longer accept sends.
func (m *mailbox) IsClosed() bool {
	select {
	case <-m.closedCh:
		return true
	default:
		return false
	}
}

// close is best-effort: it signals closedCh so pending and future sends
// fail with ErrClosed. It does not close ch itself — the run loop is the
// only reader and drains/exits on its own once it observes Terminate, so
// closing ch here could race a concurrent Send into a "send on closed
// channel" panic. Idempotent.
func (m *mailbox) close() {
	m.once.Do(func() {
		close(m.closedCh)
	})
}
