package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RedisConfig struct {
	Addr          string   `yaml:"addr"` // Used for single node or as one of sentinel's addrs (though sentinel_addrs is preferred for sentinels)
	Password      string   `yaml:"password,omitempty"`
	DB            int      `yaml:"db,omitempty"`
	MasterName    string   `yaml:"master_name,omitempty"`    // For Sentinel
	SentinelAddrs []string `yaml:"sentinel_addrs,omitempty"` // For Sentinel: list of "host:port"
}

type MongoConfig struct {
	URI              string   `yaml:"uri"`             // Primary connection string, can contain all options
	Hosts            []string `yaml:"hosts,omitempty"` // Alternative: list of "host:port" for mongos or replica set members
	ReplicaSet       string   `yaml:"replica_set,omitempty"`
	Username         string   `yaml:"username,omitempty"`
	Password         string   `yaml:"password,omitempty"`    // Consider using a more secure way to handle passwords in real deployments
	AuthSource       string   `yaml:"auth_source,omitempty"` // e.g., "admin" or the database name
	Database         string   `yaml:"database"`              // The default database to use
	Collection       string   `yaml:"collection"`            // Default collection for lifecycle events
	ConnectTimeoutMS int64    `yaml:"connect_timeout_ms,omitempty"`
	MaxPoolSize      uint64   `yaml:"max_pool_size,omitempty"`
}

type ConsulConfig struct {
	Addr string `yaml:"addr"`
}

type NSQConfig struct {
	NSQDAddr                string   `yaml:"nsqd_addr,omitempty"`                 // Kept for single-node setup or fallback
	NSQDAddresses           []string `yaml:"nsqd_addresses,omitempty"`            // For producer to connect to a list of nsqd instances
	NSQLookupdHTTPAddresses []string `yaml:"nsqlookupd_http_addresses,omitempty"` // For consumers and optionally for producers to discover nsqds
	Topic                   string   `yaml:"topic,omitempty"`                     // Default topic for lifecycle events
	Channel                 string   `yaml:"channel,omitempty"`                   // Default channel for consumers
}

// GRPCConfig controls the well-known grpc health service observability.HealthServer
// exposes alongside the actor system, analogous to the RPC listen address
// every cmd/*server/*.go in the teacher configures per-service.
type GRPCConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Duration wraps time.Duration so server.yaml can write "5s"/"10s" instead
// of raw nanosecond integers; yaml.v3 has no built-in time.Duration
// support, so UnmarshalYAML routes the scalar through time.ParseDuration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// RuntimeConfig carries the actor-system-level knobs: default mailbox
// bound, heartbeat period and the grace period TerminateAndWait allows
// actors to exit. Actors still running when the grace period ends are
// counted in TerminateAndWait's returned error; they are not reported
// through UI.OnActorUnresponsive.
type RuntimeConfig struct {
	DefaultMailboxBound int      `yaml:"default_mailbox_bound"`
	HeartbeatPeriod     Duration `yaml:"heartbeat_period"`
	ShutdownGrace       Duration `yaml:"shutdown_grace"`
}

// ServerInfo holds the process's own address/registration information,
// kept from the teacher's ServerInfo but trimmed of per-game-service RPC
// ports that had no SPEC_FULL.md equivalent.
type ServerInfo struct {
	Host               string `yaml:"host"`
	RegisterSelfAsHost bool   `yaml:"register_self_as_host,omitempty"`
}

// ServerConfig is the root YAML document, loaded once and cached, exactly
// as the teacher's GetServerConfig/loadConfig pair does.
type ServerConfig struct {
	Server  ServerInfo    `yaml:"server"`
	Runtime RuntimeConfig `yaml:"runtime"`
	Redis   RedisConfig   `yaml:"redis"`
	Mongo   MongoConfig   `yaml:"mongo"`
	Consul  ConsulConfig  `yaml:"consul"`
	NSQ     NSQConfig     `yaml:"nsq"`
	GRPC    GRPCConfig    `yaml:"grpc"`
}

var serverConfigInstance *ServerConfig

// GetServerConfig loads config/server.yaml once and panics on failure,
// matching the teacher's load-once-panic-on-error singleton exactly.
func GetServerConfig() *ServerConfig {
	if serverConfigInstance == nil {
		var err error
		serverConfigInstance, err = loadConfig("config/server.yaml")
		if err != nil {
			panic(fmt.Sprintf("failed to load server config: %v", err))
		}
	}
	return serverConfigInstance
}

func loadConfig(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := defaultServerConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}
	return cfg, nil
}

// defaultServerConfig seeds the Runtime knobs with sane defaults so a
// server.yaml that omits the runtime: block still gets a working actor
// system.
func defaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Runtime: RuntimeConfig{
			DefaultMailboxBound: 64,
			HeartbeatPeriod:     Duration(5 * time.Second),
			ShutdownGrace:       Duration(10 * time.Second),
		},
	}
}
