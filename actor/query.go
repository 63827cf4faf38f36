package actor

import (
	"context"
	"time"
)

// Query[Q, R] is a user message that carries its own one-shot reply slot.
// It generalizes infra/actor/actor.go's Ask, which raced a pair of
// buffered reply/error channels hidden inside actorMessage against
// ctx.Done()/stopCh; here the same idea is surfaced as an ordinary message
// of the actor's own message set M, so a Processor's HandleUser can read
// Q and call Respond without any envelope-level special-casing.
type Query[Q, R any] struct {
	Req   Q
	reply chan queryResult[R]
	// done is closed by the querier the moment it stops waiting for a
	// reply (timeout, cancelled context, or the responder's own mailbox
	// observed closed first) — spec.md §4.D / S3's "responder's
	// subsequent respond returns ReceiverClosed" half of the contract.
	// Without it Respond has no way to tell a late reply is orphaned from
	// a reply nobody has read yet.
	done chan struct{}
}

type queryResult[R any] struct {
	val R
	err error
}

// NewQuery wraps req in a fresh one-shot reply slot. Processors receive
// this as part of their message set M (typically one variant of a sum
// type built from several Query[Q,R] instantiations or a dedicated query
// message wrapping one).
func NewQuery[Q, R any](req Q) Query[Q, R] {
	return Query[Q, R]{Req: req, reply: make(chan queryResult[R], 1), done: make(chan struct{})}
}

// Respond delivers val/err to the asker. Only the first call has any
// effect; a second call returns ErrOneshotConsumed, and a call after the
// querier has already given up (timeout/cancel/responder-exit) returns
// ErrClosed instead of silently succeeding into a buffer nobody will ever
// read.
func (q Query[Q, R]) Respond(val R, err error) error {
	select {
	case <-q.done:
		return ErrClosed
	default:
	}
	select {
	case q.reply <- queryResult[R]{val: val, err: err}:
		return nil
	default:
		return ErrOneshotConsumed
	}
}

// wait blocks for q's reply, the responder's mailbox closing (the actor
// exited without ever calling Respond — spec.md §4.D's SendersDropped
// case), ctxDone, or timerC. A reply that is already sitting in the buffer
// always wins over the other three, since Respond returning and the
// responder actor exiting afterward can race arbitrarily closely
// together; among the other three there is no priority. Exactly one of ctxDone/timerC is non-nil; a nil channel never
// fires, so the unused case simply never triggers (Ask passes ctxDone,
// TimeoutAsk passes timerC). onGiveUp builds the error for whichever one
// fires.
func (q Query[Q, R]) wait(closedCh <-chan struct{}, ctxDone <-chan struct{}, timerC <-chan time.Time, onGiveUp func() error) (R, error) {
	var zero R
	drain := func() (queryResult[R], bool) {
		select {
		case r := <-q.reply:
			return r, true
		default:
			return queryResult[R]{}, false
		}
	}
	select {
	case r := <-q.reply:
		return r.val, r.err
	case <-ctxDone:
		if r, ok := drain(); ok {
			return r.val, r.err
		}
		close(q.done)
		return zero, onGiveUp()
	case <-timerC:
		if r, ok := drain(); ok {
			return r.val, r.err
		}
		close(q.done)
		return zero, onGiveUp()
	case <-closedCh:
		if r, ok := drain(); ok {
			return r.val, r.err
		}
		close(q.done)
		return zero, ErrSendersDropped
	}
}

// Ask sends req to h wrapped in a fresh Query[Q,R] and blocks for the
// reply, ctx cancellation, or the responder actor exiting without ever
// calling Respond, whichever comes first. The send itself uses
// Handle.Send's blocking semantics (spec.md §4.D).
func Ask[Q, R, M any](ctx context.Context, h Handle[M], wrap func(Query[Q, R]) M, req Q) (R, error) {
	var zero R
	q := NewQuery[Q, R](req)
	if err := h.Send(wrap(q)); err != nil {
		return zero, err
	}
	return q.wait(h.mb.closedCh, ctx.Done(), nil, func() error { return ctx.Err() })
}

// TimeoutAsk is Ask bounded by a relative duration instead of a caller
// supplied context, returning ErrTimeout(d) on expiry.
func TimeoutAsk[Q, R, M any](d time.Duration, h Handle[M], wrap func(Query[Q, R]) M, req Q) (R, error) {
	var zero R
	q := NewQuery[Q, R](req)
	if err := h.Send(wrap(q)); err != nil {
		return zero, err
	}
	t := time.NewTimer(d)
	defer t.Stop()
	return q.wait(h.mb.closedCh, nil, t.C, func() error { return ErrTimeout(d) })
}

// AskRef is Ask's non-blocking-send sibling: it uses TrySend instead of
// Send, returning ErrFull/ErrClosed immediately rather than blocking on a
// saturated mailbox. Useful from request-handling goroutines that must
// never stall on a slow actor (spec.md §4.D).
func AskRef[Q, R, M any](ctx context.Context, h Handle[M], wrap func(Query[Q, R]) M, req Q) (R, error) {
	var zero R
	q := NewQuery[Q, R](req)
	if err := h.TrySend(wrap(q)); err != nil {
		return zero, err
	}
	return q.wait(h.mb.closedCh, ctx.Done(), nil, func() error { return ctx.Err() })
}

// TimeoutAskRef combines AskRef's non-blocking send with a relative
// deadline on the reply wait.
func TimeoutAskRef[Q, R, M any](d time.Duration, h Handle[M], wrap func(Query[Q, R]) M, req Q) (R, error) {
	var zero R
	q := NewQuery[Q, R](req)
	if err := h.TrySend(wrap(q)); err != nil {
		return zero, err
	}
	t := time.NewTimer(d)
	defer t.Stop()
	return q.wait(h.mb.closedCh, nil, t.C, func() error { return ErrTimeout(d) })
}
