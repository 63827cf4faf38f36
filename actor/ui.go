package actor

import (
	"log"
)

// ConsoleUI is the plain-log UI: one line per lifecycle/heartbeat event, in
// the same log.Printf style cmd/gameserver/gameserver.go uses for its own
// startup narration. A System reports to it only when it is attached with
// WithUI; New attaches no UI by default. observability.* sinks
// (Redis/Mongo/NSQ/Consul/grpc health) can be attached alongside it.
type ConsoleUI struct {
	l *log.Logger
}

// NewConsoleUI wraps l, or the package default logger if l is nil.
func NewConsoleUI(l *log.Logger) *ConsoleUI {
	if l == nil {
		l = logger()
	}
	return &ConsoleUI{l: l}
}

func (c *ConsoleUI) OnActorAdded(id ActorID, name string) {
	c.l.Printf("actor added: %s (%s)", id, name)
}

func (c *ConsoleUI) OnActorRemoved(id ActorID) {
	c.l.Printf("actor removed: %s", id)
}

func (c *ConsoleUI) OnActorStarted(id ActorID) {
	c.l.Printf("actor started: %s", id)
}

func (c *ConsoleUI) OnActorFailedToStart(id ActorID, err error) {
	c.l.Printf("actor failed to start: %s: %v", id, err)
}

func (c *ConsoleUI) OnActorTerminated(id ActorID) {
	c.l.Printf("actor terminated: %s", id)
}

func (c *ConsoleUI) OnActorFailed(id ActorID, err error) {
	c.l.Printf("actor failed: %s: %v", id, err)
}

func (c *ConsoleUI) OnHeartbeatCycle(cycle uint64) {
	c.l.Printf("heartbeat cycle %d", cycle)
}

func (c *ConsoleUI) OnPingResponse(resp PingResponse) {
	c.l.Printf("ping response from %s: cycle=%d elapsed=%dns", resp.ID, resp.Cycle, resp.ElapsedNs)
}

func (c *ConsoleUI) OnActorUnresponsive(id ActorID, cycle uint64) {
	c.l.Printf("actor unresponsive: %s at cycle %d", id, cycle)
}

var _ UI = (*ConsoleUI)(nil)
