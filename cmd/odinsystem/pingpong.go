package main

import (
	"fmt"
	"time"

	"github.com/phuhao00/odin/actor"
)

// PingMsg and PongMsg are the two halves of a cyclic actor pair: each
// actor needs the other's handle at construction time, the canonical
// case actor.PreHandle exists for (spec.md §3, §9).

type PongMsg struct {
	From  actor.ActorID
	Count int
}

type PingMsg struct {
	From  actor.ActorID
	Count int
}

// pingState/pongState hold the peer handle and a running tally.
type pingState struct {
	peer  actor.Handle[PongMsg]
	sent  int
	limit int
}

type pongState struct {
	peer actor.Handle[PingMsg]
	seen int
}

// pingProcessor implements actor.Processor[pingState, PingMsg]: it only
// reacts to PingMsg (the pong actor's replies), and kicks the exchange
// off from its Start hook.
type pingProcessor struct{}

func (pingProcessor) OnStart(ctx *actor.Context[pingState, PingMsg]) {
	st := ctx.State()
	if st.sent < st.limit {
		_ = st.peer.Send(PongMsg{From: ctx.ID(), Count: st.sent})
		st.sent++
	}
}

func (pingProcessor) HandleUser(ctx *actor.Context[pingState, PingMsg], msg PingMsg) (actor.ReceiveAction, error) {
	st := ctx.State()
	if st.sent >= st.limit {
		return actor.RequestTermination, nil
	}
	if err := st.peer.Send(PongMsg{From: ctx.ID(), Count: st.sent}); err != nil {
		return actor.RequestTermination, fmt.Errorf("ping: sending to pong: %w", err)
	}
	st.sent++
	return actor.Continue, nil
}

var _ actor.StartHook[pingState, PingMsg] = pingProcessor{}

// pongProcessor implements actor.Processor[pongState, PongMsg]: every
// PongMsg it sees is answered with a PingMsg back to the sender.
type pongProcessor struct{}

func (pongProcessor) HandleUser(ctx *actor.Context[pongState, PongMsg], msg PongMsg) (actor.ReceiveAction, error) {
	st := ctx.State()
	st.seen++
	if err := st.peer.Send(PingMsg{From: ctx.ID(), Count: msg.Count}); err != nil {
		return actor.Continue, fmt.Errorf("pong: sending to ping: %w", err)
	}
	return actor.Continue, nil
}

// spawnPingPong wires the classic cyclic pair using a pre-handle for the
// ping actor (whose id the pong actor needs before ping exists), then
// spawns pong against a fresh handle, and finally spawns ping against its
// pre-handle now that it can be given pong's real handle.
func spawnPingPong(sys *actor.System, bound int, limit int) error {
	prePing := actor.NewPreHandle[PingMsg](actor.NewActorID("ping"), bound)

	hPong, err := actor.SpawnActor(sys, actor.NewActorID("pong"), "pong", bound, pongState{peer: prePing.Handle()}, pongProcessor{})
	if err != nil {
		return fmt.Errorf("spawning pong: %w", err)
	}

	_, err = actor.SpawnPreActor(sys, prePing, "ping", pingState{peer: hPong, limit: limit}, pingProcessor{})
	if err != nil {
		return fmt.Errorf("spawning ping: %w", err)
	}
	return nil
}

// demoTimerState/demoTimerProcessor exercise the repeating-timer half of
// the actor core independent of ping/pong, logging its own uptime.
type demoTimerState struct {
	started time.Time
	ticks   int
}

type demoTimerMsg struct{}

type timerProcessor struct{}

func (timerProcessor) OnStart(ctx *actor.Context[demoTimerState, demoTimerMsg]) {
	ctx.State().started = time.Now()
	_, _ = ctx.Self().StartRepeatTimer(1, 2*time.Second, false)
}

func (timerProcessor) OnTimer(ctx *actor.Context[demoTimerState, demoTimerMsg], id int32) {
	ctx.State().ticks++
}

func (timerProcessor) HandleUser(ctx *actor.Context[demoTimerState, demoTimerMsg], msg demoTimerMsg) (actor.ReceiveAction, error) {
	return actor.Continue, nil
}

var (
	_ actor.StartHook[demoTimerState, demoTimerMsg] = timerProcessor{}
	_ actor.TimerHook[demoTimerState, demoTimerMsg] = timerProcessor{}
)
