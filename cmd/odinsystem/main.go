package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/phuhao00/odin"
	"github.com/phuhao00/odin/actor"
	"github.com/phuhao00/odin/config"
	"github.com/phuhao00/odin/infra/consulx"
	"github.com/phuhao00/odin/infra/mongox"
	"github.com/phuhao00/odin/infra/nsqx"
	"github.com/phuhao00/odin/infra/redisx"
	"github.com/phuhao00/odin/observability"
)

const serverName = "odinsystem"

func main() {
	log.Printf("%s starting...", serverName)

	cfg := config.GetServerConfig()
	if cfg == nil {
		log.Printf("%s config is nil", serverName)
		return
	}

	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Configuration loaded successfully")

	var uis []actor.Option
	var components []odin.Component

	redisClient, err := redisx.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
	} else {
		log.Println("Connected to Redis successfully")
		ru := observability.NewRedisUI(redisClient, 0)
		uis = append(uis, actor.WithUI(ru))
		components = append(components, ru)
	}

	mongoClient, err := mongox.NewMongoClient(cfg.Mongo)
	if err != nil {
		log.Printf("Failed to connect to MongoDB: %v", err)
	} else {
		log.Println("Connected to MongoDB successfully")
		mu := observability.NewMongoUI(mongoClient)
		uis = append(uis, actor.WithUI(mu))
		components = append(components, mu)
	}

	consulClient, err := consulx.NewConsulClient(cfg.Consul)
	if err != nil {
		log.Printf("Failed to initialize Consul client: %v. Health flags will not be published.", err)
	} else {
		log.Println("Consul client initialized successfully")
		cu := observability.NewConsulUI(consulClient)
		uis = append(uis, actor.WithUI(cu))
		components = append(components, cu)
	}

	if cfg.NSQ.NSQDAddr != "" || len(cfg.NSQ.NSQDAddresses) > 0 {
		producer, err := nsqx.NewProducer(cfg.NSQ)
		if err != nil {
			log.Printf("Failed to initialize NSQ producer: %v", err)
		} else {
			topic := cfg.NSQ.Topic
			if topic == "" {
				topic = "odin.lifecycle"
			}
			nu := observability.NewNSQUI(producer, topic)
			uis = append(uis, actor.WithUI(nu))
			components = append(components, nu)
		}
	}

	if cfg.GRPC.ListenAddr != "" {
		hs := observability.NewHealthServer(cfg.GRPC.ListenAddr)
		uis = append(uis, actor.WithUI(hs))
		components = append(components, hs)
	}

	uis = append(uis, actor.WithUI(actor.NewConsoleUI(nil)))

	for _, c := range components {
		if err := c.OnStart(); err != nil {
			log.Printf("component %s failed to start: %v", c.Name(), err)
		}
	}

	sys := actor.New(serverName, uis...)

	if err := spawnPingPong(sys, cfg.Runtime.DefaultMailboxBound, 10); err != nil {
		log.Fatalf("failed to spawn ping/pong demo actors: %v", err)
	}
	if _, err := actor.SpawnActor(sys, actor.NewActorID("timer-demo"), "timer-demo", cfg.Runtime.DefaultMailboxBound, demoTimerState{}, timerProcessor{}); err != nil {
		log.Fatalf("failed to spawn timer demo actor: %v", err)
	}

	if err := sys.StartAll(); err != nil {
		log.Printf("one or more actors failed to start: %v", err)
	}
	sys.StartHeartbeats(time.Duration(cfg.Runtime.HeartbeatPeriod))

	log.Printf("%s fully initialized and running with %d actors...", serverName, sys.ActorCount())

	if err := sys.RequestTerminationOnCtrlC(time.Duration(cfg.Runtime.ShutdownGrace)); err != nil {
		log.Printf("shutdown did not complete cleanly: %v", err)
	}

	for _, c := range components {
		if err := c.OnStop(); err != nil {
			log.Printf("component %s failed to stop cleanly: %v", c.Name(), err)
		}
	}

	if mongoClient != nil {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("error disconnecting from MongoDB: %v", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("error closing Redis client: %v", err)
		}
	}

	log.Printf("%s stopped", serverName)
}
