package observability

import "github.com/phuhao00/odin"

// Every sink in this package doubles as an odin.Component so a
// cmd/odinsystem-style main() can start/stop it alongside infra clients
// using one uniform interface instead of five bespoke ones.
var (
	_ odin.Component = (*RedisUI)(nil)
	_ odin.Component = (*MongoUI)(nil)
	_ odin.Component = (*NSQUI)(nil)
	_ odin.Component = (*ConsulUI)(nil)
	_ odin.Component = (*HealthServer)(nil)
)
