package actor_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phuhao00/odin/actor"
)

// slowMsg is the closed message set for a responder that only answers a
// query after a delay it's told to wait, the same shape spec.md's S3
// scenario describes ("responder sleep(500ms) then respond").
type slowMsg struct {
	q     actor.Query[string, string]
	delay time.Duration
}

func (slowMsg) isSlowMsg() {}

type slowMsgSet interface{ isSlowMsg() }

type slowState struct{}

// slowProcessor records the error its own Respond call returned into
// lateRespond — a box owned by the test, not a package global, so two
// tests spawning their own slow responder never observe each other's
// result (Respond runs on the actor's goroutine, the assertion runs on
// the test goroutine).
type slowProcessor struct {
	lateRespond *atomicErrBox
}

func (p slowProcessor) HandleUser(ctx *actor.Context[slowState, slowMsgSet], msg slowMsgSet) (actor.ReceiveAction, error) {
	m := msg.(slowMsg)
	time.Sleep(m.delay)
	err := m.q.Respond(m.q.Req+"!", nil)
	p.lateRespond.Store(err)
	return actor.Continue, nil
}

type atomicErrBox struct {
	mu sync.Mutex
	v  error
}

func (b *atomicErrBox) Store(err error) { b.mu.Lock(); b.v = err; b.mu.Unlock() }
func (b *atomicErrBox) Load() error     { b.mu.Lock(); defer b.mu.Unlock(); return b.v }

func newSlowResponder(t *testing.T, sys *actor.System, lateRespond *atomicErrBox) actor.Handle[slowMsgSet] {
	t.Helper()
	h, err := actor.SpawnActor(sys, actor.NewActorID("slow"), "slow", 4, slowState{}, slowProcessor{lateRespond: lateRespond})
	require.NoError(t, err)
	require.NoError(t, sys.StartAll())
	return h
}

// TestTimeoutAskSucceedsWhenResponderAnswersBeforeDeadline is the first
// half of spec.md's S3: a 50ms responder answers well inside a 1s
// deadline.
func TestTimeoutAskSucceedsWhenResponderAnswersBeforeDeadline(t *testing.T) {
	sys := actor.New("test")
	h := newSlowResponder(t, sys, &atomicErrBox{})

	wrap := func(q actor.Query[string, string]) slowMsgSet { return slowMsg{q: q, delay: 50 * time.Millisecond} }
	v, err := actor.TimeoutAsk(time.Second, h, wrap, "42?")
	require.NoError(t, err)
	assert.Equal(t, "42?!", v)

	require.NoError(t, sys.TerminateAndWait(time.Second))
}

// TestTimeoutAskExpiresThenLateRespondReturnsClosed is the second half of
// spec.md's S3: a responder slower than the querier's deadline causes the
// querier to observe Timeout, and the responder's subsequent Respond call
// — arriving after the querier has already given up — returns ErrClosed
// (spec.md: "responder's subsequent respond returns ReceiverClosed")
// instead of silently succeeding into a reply nobody will ever read.
func TestTimeoutAskExpiresThenLateRespondReturnsClosed(t *testing.T) {
	sys := actor.New("test")
	lateRespond := &atomicErrBox{}
	h := newSlowResponder(t, sys, lateRespond)

	wrap := func(q actor.Query[string, string]) slowMsgSet { return slowMsg{q: q, delay: 200 * time.Millisecond} }
	_, err := actor.TimeoutAsk(50*time.Millisecond, h, wrap, "42?")
	require.Error(t, err)
	var odinErr *actor.Error
	require.ErrorAs(t, err, &odinErr)
	assert.Equal(t, actor.Timeout, odinErr.Kind)

	require.Eventually(t, func() bool { return lateRespond.Load() != nil }, time.Second, 10*time.Millisecond)
	var lateErr *actor.Error
	require.ErrorAs(t, lateRespond.Load(), &lateErr)
	assert.Equal(t, actor.ReceiverClosed, lateErr.Kind)

	require.NoError(t, sys.TerminateAndWait(time.Second))
}

// exitingMsg is a minimal message set for an actor that terminates itself
// on the very first message it receives, without ever calling Respond —
// the SendersDropped case spec.md §4.D and §6 describe: the querier's
// reply slot is abandoned because every would-be sender (the responder
// actor's own goroutine) exited first.
type exitingMsg struct {
	q actor.Query[struct{}, struct{}]
}

func (exitingMsg) isExitingMsg() {}

type exitingMsgSet interface{ isExitingMsg() }

type exitingState struct{}

type exitingProcessor struct{}

func (exitingProcessor) HandleUser(ctx *actor.Context[exitingState, exitingMsgSet], msg exitingMsgSet) (actor.ReceiveAction, error) {
	return actor.RequestTermination, nil
}

func TestAskObservesSendersDroppedWhenResponderExitsWithoutReplying(t *testing.T) {
	sys := actor.New("test")
	h, err := actor.SpawnActor(sys, actor.NewActorID("exiting"), "exiting", 4, exitingState{}, exitingProcessor{})
	require.NoError(t, err)
	require.NoError(t, sys.StartAll())

	wrap := func(q actor.Query[struct{}, struct{}]) exitingMsgSet { return exitingMsg{q: q} }
	_, err = actor.TimeoutAsk(time.Second, h, wrap, struct{}{})
	require.Error(t, err)
	var odinErr *actor.Error
	require.ErrorAs(t, err, &odinErr)
	assert.Equal(t, actor.SendersDropped, odinErr.Kind)

	require.NoError(t, sys.TerminateAndWait(time.Second))
}

// TestQueryRespondSecondCallReturnsOneshotConsumed covers the unrelated
// double-Respond case Query's doc comment promises alongside the
// give-up/ReceiverClosed one.
func TestQueryRespondSecondCallReturnsOneshotConsumed(t *testing.T) {
	q := actor.NewQuery[int, int](7)
	require.NoError(t, q.Respond(8, nil))
	err := q.Respond(9, nil)
	require.Error(t, err)
	var odinErr *actor.Error
	require.ErrorAs(t, err, &odinErr)
	assert.Equal(t, actor.OneshotConsumed, odinErr.Kind)
}
