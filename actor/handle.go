package actor

import "sync/atomic"

// Handle[M] is a lightweight, clonable capability to send messages of set M
// into one actor's mailbox. It generalizes infra/actor/actor.go's IActor
// (which conflates "send" and "run" on a single *Actor) by only exposing
// the send surface — the actor's own goroutine is the sole owner of state
// and of the mailbox's receive side (spec.md §3).
type Handle[M any] struct {
	id ActorID
	mb *mailbox
}

// ID returns the actor's stable identifier.
func (h Handle[M]) ID() ActorID { return h.id }

// Send awaits mailbox capacity; fails with ErrClosed if the actor's
// goroutine has exited.
func (h Handle[M]) Send(m M) error {
	return h.mb.Send(envelope{user: m})
}

// TrySend fails immediately on a full or closed mailbox, for callers that
// must not suspend (spec.md §5).
func (h Handle[M]) TrySend(m M) error {
	return h.mb.TrySend(envelope{user: m})
}

// IsClosed reports whether the actor's mailbox no longer accepts sends.
func (h Handle[M]) IsClosed() bool { return h.mb.IsClosed() }

// AsDyn erases M behind the DynReceiver[M] interface, for storage in
// heterogeneous subscriber lists where multiple unrelated actor types all
// accept the same payload type — spec.md §4.G / §9 ("heterogeneous
// subscribers"). Handle[M] already has the right method set, so this is
// just a type assertion at the call site, not a copy.
func (h Handle[M]) AsDyn() DynReceiver[M] { return h }

// DynReceiver[T] is the erased sibling of Handle[T]: same surface, but the
// concrete actor/message-set behind it is hidden. Any Handle[T] value
// satisfies this automatically.
type DynReceiver[T any] interface {
	ID() ActorID
	Send(T) error
	TrySend(T) error
}

// Widen narrows a Handle[M] (an actor's full declared message set) down to
// a Handle[T] for one variant T, given a witness function proving T
// converts to M. The witness is ordinary Go: the function literal only
// type-checks if T actually implements M, so this is a compile-time
// checked projection, not a runtime cast — spec.md §4.G's "compile-time
// checked conversion."
func Widen[M, T any](h Handle[M], witness func(T) M) Handle[T] {
	_ = witness
	return Handle[T]{id: h.id, mb: h.mb}
}

// PreHandle[M] is a handle minted before its actor is spawned, used to
// break construction-order cycles (spec.md §3, §9): allocate the mailbox
// eagerly, hand the Handle out to whichever peer needs it, then spawn the
// actor against this same PreHandle later via System.SpawnPreActor.
type PreHandle[M any] struct {
	id       ActorID
	mb       *mailbox
	attached *int32
}

// NewPreHandle allocates a mailbox for an actor that does not exist yet.
func NewPreHandle[M any](id ActorID, bound int) PreHandle[M] {
	var flag int32
	return PreHandle[M]{id: id, mb: newMailbox(bound), attached: &flag}
}

// Handle returns the capability to send to the not-yet-spawned actor. Safe
// to clone and distribute to as many peers as need it before the actor
// exists.
func (p PreHandle[M]) Handle() Handle[M] { return Handle[M]{id: p.id, mb: p.mb} }

// attach marks the pre-handle as consumed by a spawn; a second attempt is
// an error per spec.md §3 ("attempting to spawn twice against the same
// pre-handle is an error").
func (p PreHandle[M]) attach() error {
	if !atomic.CompareAndSwapInt32(p.attached, 0, 1) {
		return wrapErr(OpFailed, "pre-handle already attached to an actor", nil)
	}
	return nil
}
