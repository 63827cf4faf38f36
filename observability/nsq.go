package observability

import (
	"log"
	"time"

	"github.com/phuhao00/odin/actor"
	"github.com/phuhao00/odin/help"
	"github.com/phuhao00/odin/infra/nsqx"
)

// NSQUI broadcasts every lifecycle/heartbeat event onto an NSQ topic as a
// structpb-encoded payload, for any number of downstream consumers
// (dashboards, alerting) that should not have to share a process with
// the actor system itself.
type NSQUI struct {
	producer *nsqx.Producer
	topic    string
}

func NewNSQUI(producer *nsqx.Producer, topic string) *NSQUI {
	return &NSQUI{producer: producer, topic: topic}
}

func (u *NSQUI) Name() string   { return "observability.NSQUI" }
func (u *NSQUI) OnStart() error { return nil }
func (u *NSQUI) OnStop() error  { u.producer.Stop(); return nil }

func (u *NSQUI) publish(kind string, fields map[string]any) {
	fields["kind"] = kind
	fields["at"] = help.TimestampToDateStr(time.Now().Unix())
	if err := u.producer.PublishStruct(u.topic, fields); err != nil {
		log.Printf("observability.NSQUI: publish %s failed: %v", kind, err)
	}
}

func (u *NSQUI) OnActorAdded(id actor.ActorID, name string) {
	u.publish("actor_added", map[string]any{"actor_id": id.String(), "name": name})
}

func (u *NSQUI) OnActorRemoved(id actor.ActorID) {
	u.publish("actor_removed", map[string]any{"actor_id": id.String()})
}

func (u *NSQUI) OnActorStarted(id actor.ActorID) {
	u.publish("actor_started", map[string]any{"actor_id": id.String()})
}

func (u *NSQUI) OnActorFailedToStart(id actor.ActorID, err error) {
	u.publish("actor_failed_to_start", map[string]any{"actor_id": id.String(), "error": err.Error()})
}

func (u *NSQUI) OnActorTerminated(id actor.ActorID) {
	u.publish("actor_terminated", map[string]any{"actor_id": id.String()})
}

func (u *NSQUI) OnActorFailed(id actor.ActorID, err error) {
	u.publish("actor_failed", map[string]any{"actor_id": id.String(), "error": err.Error()})
}

func (u *NSQUI) OnHeartbeatCycle(cycle uint64) {
	u.publish("heartbeat_cycle", map[string]any{"cycle": help.Uint64ToString(cycle)})
}

func (u *NSQUI) OnPingResponse(resp actor.PingResponse) {
	u.publish("ping_response", map[string]any{
		"actor_id":   resp.ID.String(),
		"cycle":      help.Uint64ToString(resp.Cycle),
		"elapsed_ns": help.Int64ToString(resp.ElapsedNs),
	})
}

func (u *NSQUI) OnActorUnresponsive(id actor.ActorID, cycle uint64) {
	u.publish("actor_unresponsive", map[string]any{"actor_id": id.String(), "cycle": help.Uint64ToString(cycle)})
}

var _ actor.UI = (*NSQUI)(nil)
