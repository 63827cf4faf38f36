package mongox

import (
	"context"
	"time"

	"github.com/phuhao00/odin/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient wraps a connected *mongo.Client plus the default
// collection SPEC_FULL.md's observability.MongoUI appends lifecycle
// events to.
type MongoClient struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func (m *MongoClient) GetReal() *mongo.Client {
	return m.client
}

func NewMongoClient(cfg config.MongoConfig) (*MongoClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client()

	if cfg.URI != "" {
		clientOptions.ApplyURI(cfg.URI)
	} else if len(cfg.Hosts) > 0 {
		clientOptions.SetHosts(cfg.Hosts)
	}

	if cfg.ReplicaSet != "" {
		clientOptions.SetReplicaSet(cfg.ReplicaSet)
	}

	if cfg.Username != "" && cfg.Password != "" {
		cred := options.Credential{
			AuthSource: cfg.AuthSource,
			Username:   cfg.Username,
			Password:   cfg.Password,
		}
		clientOptions.SetAuth(cred)
	}

	if cfg.ConnectTimeoutMS > 0 {
		clientOptions.SetConnectTimeout(time.Duration(cfg.ConnectTimeoutMS) * time.Millisecond)
	}

	if cfg.MaxPoolSize > 0 {
		clientOptions.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	collection := client.Database(cfg.Database).Collection(cfg.Collection)

	return &MongoClient{client: client, collection: collection}, nil
}

// LifecycleEvent is what observability.MongoUI appends to the collection
// for every actor added/started/terminated/failed/unresponsive event.
type LifecycleEvent struct {
	ActorID string    `bson:"actor_id"`
	Kind    string    `bson:"kind"`
	Detail  string    `bson:"detail,omitempty"`
	At      time.Time `bson:"at"`
}

// AppendLifecycleEvent inserts one event. The target collection is
// expected to be created capped (db.createCollection with capped: true)
// so a long-running process never needs its own retention sweep —
// replacing the teacher's uncapped InsertConfig/FindConfig pair, which
// had no notion of bounded history.
func (m *MongoClient) AppendLifecycleEvent(ctx context.Context, ev LifecycleEvent) error {
	_, err := m.collection.InsertOne(ctx, ev)
	return err
}

func (m *MongoClient) Disconnect(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
