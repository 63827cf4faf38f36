package actor

import "time"

// ActorID is a stable, cheaply cloneable identifier assigned at spawn time.
// Generalized from infra/actor/actor.go's ActorID int64 to a string, per
// spec.md's data model ("identifier is a stable string").
type ActorID string

func (id ActorID) String() string { return string(id) }

// ReceiveAction is returned by a user-message handler arm to tell the run
// loop what to do next. It plays the role spec.md assigns to cont!/stop!/
// term! in the macro surface.
type ReceiveAction int

const (
	// Continue keeps processing the mailbox normally.
	Continue ReceiveAction = iota
	// PauseMessages suspends user-message dispatch until Resume (system
	// messages still run).
	PauseMessages
	// RequestTermination triggers an internal Terminate send-to-self; the
	// actor's _Terminate_ hook runs before the loop exits.
	RequestTermination
)

// systemMessage is the closed set {Start, Ping, Timer, Exec, Pause, Resume,
// Terminate} spec.md §3 requires every mailbox to admit alongside user
// messages. It is unexported: callers never construct these directly, only
// the actor system and handle do (start_all, heartbeats, timers, Exec,
// pause/resume, terminate).
type systemMessage interface {
	isSystemMessage()
}

type msgStart struct{}

func (msgStart) isSystemMessage() {}

// msgPing carries a heartbeat cycle number and the instant it was issued,
// so the actor can compute elapsed_ns on reply.
type msgPing struct {
	cycle   uint64
	started time.Time
}

func (msgPing) isSystemMessage() {}

// PingResponse is handed by the run loop, after handling a Ping, directly
// to the actor system's heartbeat collector (System.collectPing), which
// uses it to update per-actor stats.
type PingResponse struct {
	ID        ActorID
	Cycle     uint64
	ElapsedNs int64
}

// msgTimer carries the local id of the timer that fired.
type msgTimer struct {
	id int32
}

func (msgTimer) isSystemMessage() {}

// msgExec wraps an arbitrary closure to run synchronously inside the
// actor's own goroutine, against its state, without declaring a message
// type — spec.md §4.E's Exec(closure) convenience.
type msgExec struct {
	fn func(state any)
}

func (msgExec) isSystemMessage() {}

type msgPause struct{}

func (msgPause) isSystemMessage() {}

type msgResume struct{}

func (msgResume) isSystemMessage() {}

type msgTerminate struct{}

func (msgTerminate) isSystemMessage() {}

// envelope is the actual unit a mailbox transports: either a system message
// or a user message. A Query (component D) travels as an ordinary user
// message whose payload happens to carry a reply slot; the run loop does
// not need to know that. This mirrors infra/actor/actor.go's actorMessage
// wrapper, generalized to a closed sum instead of one proto.Message field.
type envelope struct {
	sys  systemMessage
	user any
}
