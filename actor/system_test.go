package actor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phuhao00/odin/actor"
)

// recordingUI captures every UI callback so tests can assert on the
// sequence of lifecycle/heartbeat events a System reports, the same way
// rpc_test.go asserts on captured RPC responses rather than side effects.
type recordingUI struct {
	added        []actor.ActorID
	started      []actor.ActorID
	terminated   []actor.ActorID
	failed       []actor.ActorID
	pingResponses []actor.PingResponse
	unresponsive []actor.ActorID
}

func (r *recordingUI) OnActorAdded(id actor.ActorID, name string)  { r.added = append(r.added, id) }
func (r *recordingUI) OnActorRemoved(id actor.ActorID)             {}
func (r *recordingUI) OnActorStarted(id actor.ActorID)             { r.started = append(r.started, id) }
func (r *recordingUI) OnActorFailedToStart(id actor.ActorID, err error) {
	r.failed = append(r.failed, id)
}
func (r *recordingUI) OnActorTerminated(id actor.ActorID) { r.terminated = append(r.terminated, id) }
func (r *recordingUI) OnActorFailed(id actor.ActorID, err error) {
	r.failed = append(r.failed, id)
}
func (r *recordingUI) OnHeartbeatCycle(cycle uint64) {}
func (r *recordingUI) OnPingResponse(resp actor.PingResponse) {
	r.pingResponses = append(r.pingResponses, resp)
}
func (r *recordingUI) OnActorUnresponsive(id actor.ActorID, cycle uint64) {
	r.unresponsive = append(r.unresponsive, id)
}

var _ actor.UI = (*recordingUI)(nil)

func TestStartAllNotifiesUIPerActor(t *testing.T) {
	rec := &recordingUI{}
	sys := actor.New("test", actor.WithUI(rec))

	id1 := actor.NewActorID("a")
	id2 := actor.NewActorID("b")
	_, err := actor.SpawnActor(sys, id1, "a", 8, counterState{}, counterProcessor{})
	require.NoError(t, err)
	_, err = actor.SpawnActor(sys, id2, "b", 8, counterState{}, counterProcessor{})
	require.NoError(t, err)

	require.NoError(t, sys.StartAll())

	assert.ElementsMatch(t, []actor.ActorID{id1, id2}, rec.added)
	assert.ElementsMatch(t, []actor.ActorID{id1, id2}, rec.started)

	require.NoError(t, sys.TerminateAndWait(time.Second))
	assert.ElementsMatch(t, []actor.ActorID{id1, id2}, rec.terminated)
}

func TestHeartbeatsCollectPingResponses(t *testing.T) {
	rec := &recordingUI{}
	sys := actor.New("test", actor.WithUI(rec))

	id := actor.NewActorID("beats")
	_, err := actor.SpawnActor(sys, id, "beats", 8, counterState{}, counterProcessor{})
	require.NoError(t, err)
	require.NoError(t, sys.StartAll())

	sys.StartHeartbeats(20 * time.Millisecond)
	require.Eventually(t, func() bool {
		for _, resp := range rec.pingResponses {
			if resp.ID == id {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond, "expected at least one ping response for %s", id)

	sys.StopHeartbeats()
	require.NoError(t, sys.TerminateAndWait(time.Second))
}

func TestTerminateAndWaitSucceedsWithinDeadlineForIdleActor(t *testing.T) {
	sys := actor.New("test")
	_, err := actor.SpawnActor(sys, actor.NewActorID("quick"), "quick", 8, counterState{}, counterProcessor{})
	require.NoError(t, err)
	require.NoError(t, sys.StartAll())

	// A generous deadline should succeed cleanly for an idle actor.
	require.NoError(t, sys.TerminateAndWait(time.Second))
}

func TestActorCountReflectsSpawnsAndTerminations(t *testing.T) {
	sys := actor.New("test")
	assert.Equal(t, 0, sys.ActorCount())

	_, err := actor.SpawnActor(sys, actor.NewActorID("count-me"), "count-me", 8, counterState{}, counterProcessor{})
	require.NoError(t, err)
	require.NoError(t, sys.StartAll())
	assert.Equal(t, 1, sys.ActorCount())

	require.NoError(t, sys.TerminateAndWait(time.Second))
	assert.Equal(t, 0, sys.ActorCount())
}
