// Package observability holds the pluggable actor.UI sinks SPEC_FULL.md's
// domain stack wires the infra/* clients into. Every sink here imports
// actor; actor never imports observability (SPEC_FULL.md §3).
package observability

import (
	"context"
	"time"

	"github.com/phuhao00/odin/actor"
	"github.com/phuhao00/odin/infra/redisx"
)

// RedisUI publishes each actor's most recent heartbeat instant to Redis,
// giving liveness a cross-process view that survives the odin process
// restarting — the in-memory stats actor.System keeps do not.
type RedisUI struct {
	client *redisx.RedisClient
	ttl    time.Duration
}

// NewRedisUI wraps an already-connected client. ttl bounds how long a
// heartbeat key survives without a fresh Ping reply before it reads as
// "no heartbeat on record."
func NewRedisUI(client *redisx.RedisClient, ttl time.Duration) *RedisUI {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisUI{client: client, ttl: ttl}
}

func (u *RedisUI) Name() string  { return "observability.RedisUI" }
func (u *RedisUI) OnStart() error { return nil }
func (u *RedisUI) OnStop() error  { return nil }

func (u *RedisUI) OnActorAdded(id actor.ActorID, name string)    {}
func (u *RedisUI) OnActorRemoved(id actor.ActorID)               {}
func (u *RedisUI) OnActorStarted(id actor.ActorID)               {}
func (u *RedisUI) OnActorFailedToStart(id actor.ActorID, err error) {}
func (u *RedisUI) OnActorTerminated(id actor.ActorID)            {}
func (u *RedisUI) OnActorFailed(id actor.ActorID, err error)     {}
func (u *RedisUI) OnHeartbeatCycle(cycle uint64)                 {}
func (u *RedisUI) OnActorUnresponsive(id actor.ActorID, cycle uint64) {}

// OnPingResponse writes the heartbeat asynchronously so a slow or
// unreachable Redis instance never adds latency to the actor system's
// own heartbeat cycle.
func (u *RedisUI) OnPingResponse(resp actor.PingResponse) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = u.client.WriteHeartbeat(ctx, resp.ID.String(), time.Now(), u.ttl)
	}()
}

var _ actor.UI = (*RedisUI)(nil)
