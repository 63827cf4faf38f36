package actor_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phuhao00/odin/actor"
)

// pppingMsg/pppongMsg mirror cmd/odinsystem/pingpong.go's PingMsg/PongMsg:
// the cyclic actor pair spec.md's S1 and S4 scenarios both exercise, one
// for exact message-count accounting and one for pre-handle wiring.
type pppingMsg struct {
	from  actor.ActorID
	count int
}

type pppongMsg struct {
	from  actor.ActorID
	count int
}

// ppPingState/ppPongState hold the peer handle plus the shared counters
// the test asserts on. total is incremented by both sides so it ends at
// 2*limit, the same "messages exchanged" count spec.md's S1 names.
type ppPingState struct {
	peer  actor.Handle[pppongMsg]
	sent  int
	limit int
	total *int64
}

type ppPongState struct {
	peer  actor.Handle[pppingMsg]
	total *int64
}

type ppPingProcessor struct {
	terminated chan struct{}
}

func (p ppPingProcessor) OnStart(ctx *actor.Context[ppPingState, pppingMsg]) {
	st := ctx.State()
	if st.sent < st.limit {
		atomic.AddInt64(st.total, 1)
		_ = st.peer.Send(pppongMsg{from: ctx.ID(), count: st.sent})
		st.sent++
	}
}

func (p ppPingProcessor) HandleUser(ctx *actor.Context[ppPingState, pppingMsg], msg pppingMsg) (actor.ReceiveAction, error) {
	st := ctx.State()
	if st.sent >= st.limit {
		return actor.RequestTermination, nil
	}
	atomic.AddInt64(st.total, 1)
	if err := st.peer.Send(pppongMsg{from: ctx.ID(), count: st.sent}); err != nil {
		return actor.RequestTermination, err
	}
	st.sent++
	return actor.Continue, nil
}

func (p ppPingProcessor) OnTerminate(ctx *actor.Context[ppPingState, pppingMsg]) {
	close(p.terminated)
}

var (
	_ actor.StartHook[ppPingState, pppingMsg]     = ppPingProcessor{}
	_ actor.TerminateHook[ppPingState, pppingMsg] = ppPingProcessor{}
)

type ppPongProcessor struct{}

func (ppPongProcessor) HandleUser(ctx *actor.Context[ppPongState, pppongMsg], msg pppongMsg) (actor.ReceiveAction, error) {
	st := ctx.State()
	atomic.AddInt64(st.total, 1)
	if err := st.peer.Send(pppingMsg{from: ctx.ID(), count: msg.count}); err != nil {
		return actor.Continue, err
	}
	return actor.Continue, nil
}

// TestPingPongExchangesExactMessageCount is spec.md's S1 scenario, scaled
// down from n = 1_000_000 to a few thousand so the suite runs in well
// under a second; the property under test — exact message count, no
// ReceiverFull — is unaffected by the scale. Ping and Pong each send a
// message for every one they receive, so the exchange totals 2*limit
// messages by the time Ping requests its own termination.
func TestPingPongExchangesExactMessageCount(t *testing.T) {
	const limit = 4000
	sys := actor.New("test")
	var total int64

	prePing := actor.NewPreHandle[pppingMsg](actor.NewActorID("ppping"), 64)
	terminated := make(chan struct{})

	hPong, err := actor.SpawnActor(sys, actor.NewActorID("pppong"), "pppong", 64, ppPongState{peer: prePing.Handle(), total: &total}, ppPongProcessor{})
	require.NoError(t, err)

	_, err = actor.SpawnPreActor(sys, prePing, "ppping", ppPingState{peer: hPong, limit: limit, total: &total}, ppPingProcessor{terminated: terminated})
	require.NoError(t, err)

	require.NoError(t, sys.StartAll())

	select {
	case <-terminated:
	case <-time.After(5 * time.Second):
		t.Fatal("ping never requested termination")
	}

	require.NoError(t, sys.TerminateAndWait(time.Second))
	require.Equal(t, int64(2*limit), atomic.LoadInt64(&total))
}

// TestPreHandleCyclicWiringExchangesFirstMessage is spec.md's S4 scenario:
// a pre-handle lets Pong be spawned with Ping's not-yet-existing handle,
// Ping is then spawned against that same pre-handle, start_all succeeds,
// and the first message exchange actually completes.
func TestPreHandleCyclicWiringExchangesFirstMessage(t *testing.T) {
	sys := actor.New("test")
	var total int64

	prePing := actor.NewPreHandle[pppingMsg](actor.NewActorID("s4-ping"), 8)
	terminated := make(chan struct{})

	hPong, err := actor.SpawnActor(sys, actor.NewActorID("s4-pong"), "s4-pong", 8, ppPongState{peer: prePing.Handle(), total: &total}, ppPongProcessor{})
	require.NoError(t, err)

	_, err = actor.SpawnPreActor(sys, prePing, "s4-ping", ppPingState{peer: hPong, limit: 1, total: &total}, ppPingProcessor{terminated: terminated})
	require.NoError(t, err)

	require.NoError(t, sys.StartAll())

	select {
	case <-terminated:
	case <-time.After(time.Second):
		t.Fatal("first message exchange never completed")
	}

	require.NoError(t, sys.TerminateAndWait(time.Second))
	require.Equal(t, int64(2), atomic.LoadInt64(&total))
}

// TestSpawnPreActorTwiceAgainstSamePreHandleFails covers spec.md §3's
// "attempting to spawn twice against the same pre-handle is an error."
func TestSpawnPreActorTwiceAgainstSamePreHandleFails(t *testing.T) {
	sys := actor.New("test")
	pre := actor.NewPreHandle[counterMsg](actor.NewActorID("pre-double"), 8)

	_, err := actor.SpawnPreActor(sys, pre, "first", counterState{}, counterProcessor{})
	require.NoError(t, err)

	_, err = actor.SpawnPreActor(sys, pre, "second", counterState{}, counterProcessor{})
	require.Error(t, err)

	require.NoError(t, sys.TerminateAndWait(time.Second))
}
