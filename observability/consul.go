package observability

import (
	"fmt"
	"log"
	"sync"

	"github.com/phuhao00/odin/actor"
	"github.com/phuhao00/odin/infra/consulx"
)

// ConsulUI reflects per-actor health into Consul KV under
// odin/health/<actor-id>, so a separate health-checking process (or
// Consul's own watchers) can alert on an actor going unresponsive
// without polling the odin process directly.
type ConsulUI struct {
	client *consulx.ConsulClient

	mu    sync.Mutex
	known map[actor.ActorID]struct{}
}

func NewConsulUI(client *consulx.ConsulClient) *ConsulUI {
	return &ConsulUI{client: client, known: make(map[actor.ActorID]struct{})}
}

func (u *ConsulUI) Name() string   { return "observability.ConsulUI" }
func (u *ConsulUI) OnStart() error { return nil }
func (u *ConsulUI) OnStop() error  { return nil }

func healthKey(id actor.ActorID) string {
	return fmt.Sprintf("odin/health/%s", id)
}

func (u *ConsulUI) setFlag(id actor.ActorID, healthy bool) {
	if err := u.client.SetHealthFlag(healthKey(id), healthy); err != nil {
		log.Printf("observability.ConsulUI: set health flag for %s failed: %v", id, err)
	}
}

func (u *ConsulUI) OnActorAdded(id actor.ActorID, name string) {
	u.mu.Lock()
	u.known[id] = struct{}{}
	u.mu.Unlock()
	u.setFlag(id, true)
}

func (u *ConsulUI) OnActorRemoved(id actor.ActorID) {
	u.mu.Lock()
	delete(u.known, id)
	u.mu.Unlock()
}

func (u *ConsulUI) OnActorStarted(id actor.ActorID) { u.setFlag(id, true) }

func (u *ConsulUI) OnActorFailedToStart(id actor.ActorID, err error) { u.setFlag(id, false) }

func (u *ConsulUI) OnActorTerminated(id actor.ActorID) {}

func (u *ConsulUI) OnActorFailed(id actor.ActorID, err error) { u.setFlag(id, false) }

func (u *ConsulUI) OnHeartbeatCycle(cycle uint64) {}

// OnPingResponse marks the actor healthy again — a successful Ping reply
// is the clearest positive health signal the system has.
func (u *ConsulUI) OnPingResponse(resp actor.PingResponse) { u.setFlag(resp.ID, true) }

func (u *ConsulUI) OnActorUnresponsive(id actor.ActorID, cycle uint64) { u.setFlag(id, false) }

var _ actor.UI = (*ConsulUI)(nil)
