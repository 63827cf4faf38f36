// Package odin is the module root: it holds the Component lifecycle
// interface shared by every observability sink and infra client, the
// merger of the teacher's IModule and IServer interfaces (imodule.go,
// iserver.go), which differed only in method naming for what is the same
// start/stop/name contract.
package odin

// Component is implemented by anything a cmd/*/main.go wires up and must
// start before serving and stop during graceful shutdown: observability
// sinks, infra clients with background goroutines, the grpc health
// server. OnStart/OnStop return errors, unlike the teacher's void
// IModule/IServer methods, so main() can log and decide whether a failed
// component is fatal.
type Component interface {
	Name() string
	OnStart() error
	OnStop() error
}
