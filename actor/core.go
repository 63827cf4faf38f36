package actor

import (
	"fmt"
	"time"
)

// Processor[S, M] is the behavior a caller plugs into an actor: the
// generalization of infra/actor/actor.go's ActorProcessor interface from
// one concrete proto.Message payload to a generic, statically typed
// message set M over private state S. It plays the role spec.md's
// impl_actor! macro expands into.
type Processor[S, M any] interface {
	// HandleUser runs for every message in M delivered to the mailbox. The
	// returned ReceiveAction tells the run loop what to do next; a
	// non-nil error is logged by the caller (the framework never retries
	// or aborts the actor on a handler error by itself).
	HandleUser(ctx *Context[S, M], msg M) (ReceiveAction, error)
}

// StartHook, TimerHook and TerminateHook are optional; a Processor
// implements whichever it needs and the run loop type-asserts for them,
// exactly as spec.md's _Start_/_Timer_/_Terminate_ blocks are optional.
type StartHook[S, M any] interface {
	OnStart(ctx *Context[S, M])
}

type TimerHook[S, M any] interface {
	OnTimer(ctx *Context[S, M], id int32)
}

type TerminateHook[S, M any] interface {
	OnTerminate(ctx *Context[S, M])
}

// Context[S, M] is what a handler arm sees: access to its own private
// state and to hself, its own handle, for self-scheduled work. It
// generalizes infra/actor/actor.go's actorContextImpl.Self().
type Context[S, M any] struct {
	state *S
	hself Handle[M]
	id    ActorID
	sys   *System
}

// State returns a pointer to the actor's private state. Only ever called
// from inside this actor's own goroutine.
func (c *Context[S, M]) State() *S { return c.state }

// Self returns this actor's own handle, for self-sends (timers, deferred
// continuations, Exec).
func (c *Context[S, M]) Self() Handle[M] { return c.hself }

// ID returns the actor's identifier.
func (c *Context[S, M]) ID() ActorID { return c.id }

// Exec runs fn synchronously inside this actor's own goroutine against its
// state, without declaring a message type (spec.md §4.E's Exec(closure)).
// Because it is delivered as a system message, it is processed ahead of
// any buffered (paused) user messages and interleaved with other system
// messages in arrival order.
func (c *Context[S, M]) Exec(fn func(state *S)) error {
	return c.hself.sendSystem(msgExec{fn: func(state any) {
		fn(state.(*S))
	}})
}

// actorCore is the untyped side of a running actor the System keeps a
// descriptor for: enough to send system messages and wait for exit
// without knowing S or M.
type actorCore struct {
	id     ActorID
	mb     *mailbox
	doneCh chan struct{}
	sendSys func(systemMessage) error
	trySendSys func(systemMessage) error
}

// Actor[S, M] is one running actor: private state S, mailbox of M plus
// system messages, and the processor implementing its behavior. It
// generalizes infra/actor/actor.go's Actor struct (id, name, processor,
// mailbox, stopCh, wg) to be generic and to dispatch the full system
// message set instead of only Stop.
type Actor[S, M any] struct {
	id        ActorID
	state     S
	processor Processor[S, M]
	mb        *mailbox
	hself     Handle[M]
	sys       *System
	doneCh    chan struct{}

	paused     bool
	pauseQueue []M
}

func newActor[S, M any](id ActorID, state S, processor Processor[S, M], mb *mailbox, sys *System) *Actor[S, M] {
	return &Actor[S, M]{
		id:        id,
		state:     state,
		processor: processor,
		mb:        mb,
		hself:     Handle[M]{id: id, mb: mb},
		sys:       sys,
		doneCh:    make(chan struct{}),
	}
}

func (a *Actor[S, M]) core() *actorCore {
	return &actorCore{
		id:         a.id,
		mb:         a.mb,
		doneCh:     a.doneCh,
		sendSys:    a.hself.sendSystem,
		trySendSys: a.hself.trySendSystem,
	}
}

// run is the actor's goroutine body: await next mailbox message, dispatch,
// repeat, exactly as spec.md §4.E prescribes. Generalized from
// infra/actor/actor.go's Actor.run().
func (a *Actor[S, M]) run() {
	defer a.mb.close()
	defer close(a.doneCh)
	ctx := &Context[S, M]{state: &a.state, hself: a.hself, id: a.id, sys: a.sys}
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			logger().Printf("actor %s panicked and was terminated: %v", a.id, err)
			a.sys.notifyActorFailed(a.id, err)
		}
	}()

	for env := range a.mb.recv() {
		if env.sys != nil {
			if a.dispatchSystem(ctx, env.sys) {
				return
			}
			continue
		}
		m, ok := env.user.(M)
		if !ok {
			logger().Printf("actor %s: dropping message of unexpected type %T", a.id, env.user)
			continue
		}
		if a.paused {
			a.pauseQueue = append(a.pauseQueue, m)
			continue
		}
		a.dispatchUser(ctx, m)
	}
}

func (a *Actor[S, M]) dispatchSystem(ctx *Context[S, M], sys systemMessage) (stop bool) {
	switch s := sys.(type) {
	case msgStart:
		if h, ok := a.processor.(StartHook[S, M]); ok {
			h.OnStart(ctx)
		}
	case msgPing:
		elapsed := time.Since(s.started)
		a.sys.collectPing(PingResponse{ID: a.id, Cycle: s.cycle, ElapsedNs: elapsed.Nanoseconds()})
	case msgTimer:
		if h, ok := a.processor.(TimerHook[S, M]); ok {
			h.OnTimer(ctx, s.id)
		}
	case msgExec:
		s.fn(&a.state)
	case msgPause:
		a.paused = true
	case msgResume:
		a.paused = false
		queued := a.pauseQueue
		a.pauseQueue = nil
		for _, m := range queued {
			a.dispatchUser(ctx, m)
		}
	case msgTerminate:
		if h, ok := a.processor.(TerminateHook[S, M]); ok {
			h.OnTerminate(ctx)
		}
		a.sys.notifyActorTerminated(a.id)
		return true
	}
	return false
}

func (a *Actor[S, M]) dispatchUser(ctx *Context[S, M], m M) {
	action, err := a.processor.HandleUser(ctx, m)
	if err != nil {
		logger().Printf("actor %s: handler returned error: %v", a.id, err)
	}
	switch action {
	case PauseMessages:
		a.paused = true
	case RequestTermination:
		// Non-blocking: this runs on the actor's own goroutine, the
		// mailbox's only reader, so a blocking send here could deadlock
		// forever if concurrent senders refill the buffer between this
		// actor's last recv and this self-send (handle_timer.go's timer
		// goroutines also send with trySendSystem, so they never block on
		// a full mailbox either).
		_ = a.hself.trySendSystem(msgTerminate{})
	case Continue:
	}
}
