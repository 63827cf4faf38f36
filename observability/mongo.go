package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/phuhao00/odin/actor"
	"github.com/phuhao00/odin/infra/mongox"
)

// MongoUI appends every lifecycle/heartbeat-anomaly event to a capped
// Mongo collection, giving operators a durable timeline of what an actor
// system did without needing to keep the process's own stdout around.
type MongoUI struct {
	client *mongox.MongoClient
}

func NewMongoUI(client *mongox.MongoClient) *MongoUI {
	return &MongoUI{client: client}
}

func (u *MongoUI) Name() string   { return "observability.MongoUI" }
func (u *MongoUI) OnStart() error { return nil }
func (u *MongoUI) OnStop() error  { return nil }

func (u *MongoUI) append(actorID, kind, detail string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = u.client.AppendLifecycleEvent(ctx, mongox.LifecycleEvent{
			ActorID: actorID,
			Kind:    kind,
			Detail:  detail,
			At:      time.Now(),
		})
	}()
}

func (u *MongoUI) OnActorAdded(id actor.ActorID, name string) {
	u.append(id.String(), "added", name)
}

func (u *MongoUI) OnActorRemoved(id actor.ActorID) {
	u.append(id.String(), "removed", "")
}

func (u *MongoUI) OnActorStarted(id actor.ActorID) {
	u.append(id.String(), "started", "")
}

func (u *MongoUI) OnActorFailedToStart(id actor.ActorID, err error) {
	u.append(id.String(), "failed_to_start", err.Error())
}

func (u *MongoUI) OnActorTerminated(id actor.ActorID) {
	u.append(id.String(), "terminated", "")
}

func (u *MongoUI) OnActorFailed(id actor.ActorID, err error) {
	u.append(id.String(), "failed", err.Error())
}

func (u *MongoUI) OnHeartbeatCycle(cycle uint64) {}

func (u *MongoUI) OnPingResponse(resp actor.PingResponse) {}

func (u *MongoUI) OnActorUnresponsive(id actor.ActorID, cycle uint64) {
	u.append(id.String(), "unresponsive", fmt.Sprintf("cycle=%d", cycle))
}

var _ actor.UI = (*MongoUI)(nil)
