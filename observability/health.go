package observability

import (
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/phuhao00/odin/actor"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// serviceName is the service name under which the actor system's health
// is published; a grpc_health_v1 client must ask for this name to see it.
// The server-wide status (empty service name) stays SERVING and is not
// flipped by actor failures.
const serviceName = "odin.actorsystem"

// HealthServer exposes grpc's bundled well-known health-checking service
// over listenAddr, flipping SERVING/NOT_SERVING as actors fail or recover
// — the same grpc.NewServer/net.Listen/GracefulStop sequence
// cmd/gameserver/gameserver.go uses to serve its domain RPC service,
// repurposed here to serve observability instead.
type HealthServer struct {
	listenAddr string
	srv        *grpc.Server
	health     *health.Server

	mu          sync.Mutex
	unresponsive map[actor.ActorID]struct{}
}

func NewHealthServer(listenAddr string) *HealthServer {
	return &HealthServer{
		listenAddr:   listenAddr,
		health:       health.NewServer(),
		unresponsive: make(map[actor.ActorID]struct{}),
	}
}

func (h *HealthServer) Name() string { return "observability.HealthServer" }

// OnStart binds listenAddr and begins serving in the background, mirroring
// gameserver.go's `go func() { grpcServer.Serve(lis) }()` pattern.
func (h *HealthServer) OnStart() error {
	lis, err := net.Listen("tcp", h.listenAddr)
	if err != nil {
		return fmt.Errorf("observability.HealthServer: failed to listen on %s: %w", h.listenAddr, err)
	}
	h.srv = grpc.NewServer()
	healthpb.RegisterHealthServer(h.srv, h.health)
	h.health.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)

	go func() {
		if err := h.srv.Serve(lis); err != nil {
			log.Printf("observability.HealthServer: serve exited: %v", err)
		}
	}()
	log.Printf("observability.HealthServer listening on %s", h.listenAddr)
	return nil
}

func (h *HealthServer) OnStop() error {
	if h.srv != nil {
		h.srv.GracefulStop()
	}
	return nil
}

func (h *HealthServer) recompute() {
	status := healthpb.HealthCheckResponse_SERVING
	if len(h.unresponsive) > 0 {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.health.SetServingStatus(serviceName, status)
}

func (h *HealthServer) OnActorAdded(id actor.ActorID, name string) {}
func (h *HealthServer) OnActorRemoved(id actor.ActorID)            {}
func (h *HealthServer) OnActorStarted(id actor.ActorID)            {}

func (h *HealthServer) OnActorFailedToStart(id actor.ActorID, err error) {
	h.mu.Lock()
	h.unresponsive[id] = struct{}{}
	h.recompute()
	h.mu.Unlock()
}

func (h *HealthServer) OnActorTerminated(id actor.ActorID) {
	h.mu.Lock()
	delete(h.unresponsive, id)
	h.recompute()
	h.mu.Unlock()
}

func (h *HealthServer) OnActorFailed(id actor.ActorID, err error) {
	h.mu.Lock()
	h.unresponsive[id] = struct{}{}
	h.recompute()
	h.mu.Unlock()
}

func (h *HealthServer) OnHeartbeatCycle(cycle uint64) {}

// OnPingResponse clears id's unresponsive flag: a fresh reply is proof of
// life regardless of how stale the last missed beat was.
func (h *HealthServer) OnPingResponse(resp actor.PingResponse) {
	h.mu.Lock()
	delete(h.unresponsive, resp.ID)
	h.recompute()
	h.mu.Unlock()
}

func (h *HealthServer) OnActorUnresponsive(id actor.ActorID, cycle uint64) {
	h.mu.Lock()
	h.unresponsive[id] = struct{}{}
	h.recompute()
	h.mu.Unlock()
}

var _ actor.UI = (*HealthServer)(nil)
