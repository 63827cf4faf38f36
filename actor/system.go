package actor

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// UI is the observation surface a System reports to: added/removed
// actors, start/terminate results, heartbeat responses and stalls. It is
// the interface every observability.*UI sink implements; System never
// imports observability, only the reverse (SPEC_FULL.md §3/§4.G).
type UI interface {
	OnActorAdded(id ActorID, name string)
	OnActorRemoved(id ActorID)
	OnActorStarted(id ActorID)
	OnActorFailedToStart(id ActorID, err error)
	OnActorTerminated(id ActorID)
	OnActorFailed(id ActorID, err error)
	OnHeartbeatCycle(cycle uint64)
	OnPingResponse(resp PingResponse)
	OnActorUnresponsive(id ActorID, cycle uint64)
}

// descriptor is the System's untyped view of one spawned actor: its core
// (id, mailbox, doneCh, system-message senders) plus the goroutine's exit
// status, independent of the actor's S/M type parameters. Generalizes
// infra/actor/actor.go's approach of keeping IActor (an interface) in
// whatever registry holds actors, instead of the concrete generic struct.
type descriptor struct {
	core *actorCore
	name string
}

// System is the runtime that owns a set of actors: their lifecycle,
// heartbeating, and shutdown sequencing. It generalizes the bookkeeping
// cmd/gameserver/gameserver.go performs by hand around a single gRPC
// server (register, serve, wait-for-signal, graceful-stop) into a
// reusable component that can hold arbitrarily many actors.
type System struct {
	name string

	mu    sync.Mutex
	byID  map[ActorID]*descriptor
	order []ActorID

	uis []UI

	heartbeatCycle uint64
	heartbeatStop  chan struct{}
	heartbeatDone  chan struct{}

	statsMu sync.Mutex
	stats   map[ActorID]*actorStats
}

// actorStats tracks a single actor's heartbeat latency history using the
// single-outlier-skip rule SPEC_FULL.md §4.F carries forward from
// other_examples' RideHailingObservability ActorMetrics pattern: one slow
// Ping is kept out of the average and counted in outliers, a second
// consecutive one is averaged in.
type actorStats struct {
	last          time.Duration
	min           time.Duration
	max           time.Duration
	avg           time.Duration
	count         uint64
	outliers      uint64
	lastCycle     uint64
	missedInARow  int
	outlierWindow time.Duration
}

// Option configures a System at construction time.
type Option func(*System)

// WithUI attaches an observability sink. Multiple sinks may be attached;
// each receives every event.
func WithUI(ui UI) Option {
	return func(s *System) { s.uis = append(s.uis, ui) }
}

// New creates an empty actor system under name.
func New(name string, opts ...Option) *System {
	s := &System{
		name:  name,
		byID:  make(map[ActorID]*descriptor),
		stats: make(map[ActorID]*actorStats),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *System) notify(fn func(UI)) {
	for _, ui := range s.uis {
		fn(ui)
	}
}

// NewActorID mints a fresh, process-unique actor identifier. Generalizes
// help/id_generator.go's per-entity ID helpers into one domain-agnostic
// generator backed by google/uuid, the teacher's own direct dependency.
func NewActorID(prefix string) ActorID {
	return ActorID(fmt.Sprintf("%s-%s", prefix, uuid.NewString()))
}

// SpawnActor starts a new actor with the given id, initial state and
// processor, with a mailbox of capacity bound, and returns a typed Handle to it. It fails
// with OpFailed if id is already registered. It generalizes
// infra/actor/actor.go's NewActor + the goroutine kickoff gameserver.go
// performs inline for its gRPC server.
func SpawnActor[S, M any](s *System, id ActorID, name string, bound int, state S, processor Processor[S, M]) (Handle[M], error) {
	s.mu.Lock()
	if _, exists := s.byID[id]; exists {
		s.mu.Unlock()
		return Handle[M]{}, wrapErr(OpFailed, fmt.Sprintf("actor id %s already in use", id), nil)
	}
	s.mu.Unlock()

	mb := newMailbox(bound)
	a := newActor[S, M](id, state, processor, mb, s)

	s.mu.Lock()
	s.byID[id] = &descriptor{core: a.core(), name: name}
	s.order = append(s.order, id)
	s.mu.Unlock()

	s.statsMu.Lock()
	s.stats[id] = &actorStats{}
	s.statsMu.Unlock()

	s.notify(func(ui UI) { ui.OnActorAdded(id, name) })

	go a.run()
	return a.hself, nil
}

// SpawnPreActor starts an actor whose Handle[M] was already minted before
// the actor existed (for cyclic wiring: two actors each needing the
// other's handle at construction time). It generalizes the same
// NewActor/run pairing as SpawnActor but binds to a PreHandle's mailbox
// instead of creating a fresh one.
func SpawnPreActor[S, M any](s *System, pre PreHandle[M], name string, state S, processor Processor[S, M]) (Handle[M], error) {
	if err := pre.attach(); err != nil {
		return Handle[M]{}, err
	}

	s.mu.Lock()
	if _, exists := s.byID[pre.id]; exists {
		s.mu.Unlock()
		return Handle[M]{}, wrapErr(OpFailed, fmt.Sprintf("actor id %s already in use", pre.id), nil)
	}
	s.mu.Unlock()

	a := newActor[S, M](pre.id, state, processor, pre.mb, s)

	s.mu.Lock()
	s.byID[pre.id] = &descriptor{core: a.core(), name: name}
	s.order = append(s.order, pre.id)
	s.mu.Unlock()

	s.statsMu.Lock()
	s.stats[pre.id] = &actorStats{}
	s.statsMu.Unlock()

	s.notify(func(ui UI) { ui.OnActorAdded(pre.id, name) })

	go a.run()
	return a.hself, nil
}

// StartAll sends Start to every currently registered actor, in spawn
// order, using a blocking send. An error starting one actor does not stop
// the rest — it is reported through UI.OnActorFailedToStart and surfaced
// in the returned error as a joined error.
func (s *System) StartAll() error {
	s.mu.Lock()
	ids := append([]ActorID(nil), s.order...)
	descs := make(map[ActorID]*descriptor, len(ids))
	for _, id := range ids {
		descs[id] = s.byID[id]
	}
	s.mu.Unlock()

	failed := 0
	for _, id := range ids {
		d := descs[id]
		if err := d.core.sendSys(msgStart{}); err != nil {
			failed++
			s.notify(func(ui UI) { ui.OnActorFailedToStart(id, err) })
			continue
		}
		s.notify(func(ui UI) { ui.OnActorStarted(id) })
	}
	if failed > 0 {
		return ErrIterOpFailed("start_all", len(ids), failed)
	}
	return nil
}

// TimeoutStartAll bounds StartAll by d.
func (s *System) TimeoutStartAll(d time.Duration) error {
	_, err := RunWithTimeout(context.Background(), d, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.StartAll()
	})
	return err
}

// StartHeartbeats begins issuing Ping to every registered actor every
// period, and reports each PingResponse (or a missed-beat stall) to every
// attached UI. It generalizes the heartbeat-stats incremental-update
// style help/id_generator.go uses for its counters, combined with the
// single-outlier-skip rule from the RideHailingObservability reference.
func (s *System) StartHeartbeats(period time.Duration) {
	s.heartbeatStop = make(chan struct{})
	s.heartbeatDone = make(chan struct{})

	go func() {
		defer close(s.heartbeatDone)
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-s.heartbeatStop:
				return
			case <-ticker.C:
				s.heartbeatCycle++
				cycle := s.heartbeatCycle
				s.notify(func(ui UI) { ui.OnHeartbeatCycle(cycle) })

				s.mu.Lock()
				ids := append([]ActorID(nil), s.order...)
				descs := make(map[ActorID]*descriptor, len(ids))
				for _, id := range ids {
					descs[id] = s.byID[id]
				}
				s.mu.Unlock()

				started := time.Now()
				for _, id := range ids {
					d := descs[id]
					if err := d.core.trySendSys(msgPing{cycle: cycle, started: started}); err != nil {
						s.notify(func(ui UI) { ui.OnActorUnresponsive(id, cycle) })
					}
				}
			}
		}
	}()
}

// StopHeartbeats halts the heartbeat ticker started by StartHeartbeats and
// waits for its goroutine to exit.
func (s *System) StopHeartbeats() {
	if s.heartbeatStop == nil {
		return
	}
	close(s.heartbeatStop)
	<-s.heartbeatDone
}

// collectPing is invoked by a running actor's dispatchSystem after it
// handles a Ping, updating that actor's latency stats and forwarding the
// response to every attached UI.
func (s *System) collectPing(resp PingResponse) {
	s.statsMu.Lock()
	st, ok := s.stats[resp.ID]
	if !ok {
		st = &actorStats{}
		s.stats[resp.ID] = st
	}
	elapsed := time.Duration(resp.ElapsedNs)
	if st.count == 0 {
		st.min, st.max, st.avg = elapsed, elapsed, elapsed
	} else {
		if elapsed < st.min {
			st.min = elapsed
		}
		if elapsed > st.max {
			st.max = elapsed
		}
		// incremental mean, single-outlier-skip: a reading more than 10x the
		// running average is absorbed into missedInARow instead of
		// dragging the average, unless it is the second in a row.
		if st.count > 0 && elapsed > st.avg*10 && st.missedInARow == 0 {
			st.missedInARow++
			st.outliers++
		} else {
			st.avg = st.avg + (elapsed-st.avg)/time.Duration(st.count+1)
			st.missedInARow = 0
		}
	}
	st.last = elapsed
	st.lastCycle = resp.Cycle
	st.count++
	s.statsMu.Unlock()

	s.notify(func(ui UI) { ui.OnPingResponse(resp) })
}

// notifyActorTerminated is called from an actor's own run loop once its
// Terminate hook has completed.
func (s *System) notifyActorTerminated(id ActorID) {
	s.notify(func(ui UI) { ui.OnActorTerminated(id) })
}

// notifyActorFailed is called from an actor's panic-recovery defer.
func (s *System) notifyActorFailed(id ActorID, err error) {
	s.notify(func(ui UI) { ui.OnActorFailed(id, err) })
}

// TerminateAndWait sends Terminate to every registered actor and blocks
// until each one's goroutine has exited or d elapses, whichever comes
// first. It generalizes gameserver.go's manual, resource-by-resource
// graceful-shutdown sequence into one call spanning an arbitrary actor
// set.
func (s *System) TerminateAndWait(d time.Duration) error {
	s.mu.Lock()
	ids := append([]ActorID(nil), s.order...)
	descs := make(map[ActorID]*descriptor, len(ids))
	for _, id := range ids {
		descs[id] = s.byID[id]
	}
	s.mu.Unlock()

	for _, id := range ids {
		_ = descs[id].core.sendSys(msgTerminate{})
	}

	deadline, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	failed := 0
	for _, id := range ids {
		select {
		case <-descs[id].core.doneCh:
			s.mu.Lock()
			delete(s.byID, id)
			s.mu.Unlock()
			s.notify(func(ui UI) { ui.OnActorRemoved(id) })
		case <-deadline.Done():
			failed++
		}
	}
	if failed > 0 {
		return ErrIterOpFailed("terminate_and_wait", len(ids), failed)
	}
	return nil
}

// PauseActor sends Pause to id, suspending its user-message dispatch until
// ResumeActor is called; system messages keep draining in the meantime.
// Fails with OpFailed if id is not registered.
func (s *System) PauseActor(id ActorID) error {
	s.mu.Lock()
	d, ok := s.byID[id]
	s.mu.Unlock()
	if !ok {
		return wrapErr(OpFailed, fmt.Sprintf("actor id %s not found", id), nil)
	}
	return d.core.sendSys(msgPause{})
}

// ResumeActor sends Resume to id, releasing any user messages buffered
// since the matching PauseActor in arrival order. Fails with OpFailed if id
// is not registered.
func (s *System) ResumeActor(id ActorID) error {
	s.mu.Lock()
	d, ok := s.byID[id]
	s.mu.Unlock()
	if !ok {
		return wrapErr(OpFailed, fmt.Sprintf("actor id %s not found", id), nil)
	}
	return d.core.sendSys(msgResume{})
}

// RequestTerminationOnCtrlC blocks until SIGINT or SIGTERM, then calls
// TerminateAndWait(grace). It is the direct generalization of
// cmd/gameserver/gameserver.go's sigChan/signal.Notify/<-sigChan block,
// extended to terminate every actor instead of one gRPC server.
func (s *System) RequestTerminationOnCtrlC(grace time.Duration) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	signal.Stop(sigCh)
	s.StopHeartbeats()
	return s.TerminateAndWait(grace)
}

// ProcessRequests blocks until ctx is cancelled (actors and heartbeats keep
// running on their own goroutines meanwhile), then performs an orderly shutdown. It is
// the library-style alternative to RequestTerminationOnCtrlC for
// embedders that manage their own signal handling.
func (s *System) ProcessRequests(ctx context.Context, grace time.Duration) error {
	<-ctx.Done()
	s.StopHeartbeats()
	return s.TerminateAndWait(grace)
}

// ProcessRequestsFor runs ProcessRequests bounded by an overall deadline
// in addition to ctx, useful in tests that must not hang indefinitely.
func (s *System) ProcessRequestsFor(ctx context.Context, overall, grace time.Duration) error {
	cctx, cancel := context.WithTimeout(ctx, overall)
	defer cancel()
	return s.ProcessRequests(cctx, grace)
}

// ActorCount returns the number of currently registered actors.
func (s *System) ActorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
