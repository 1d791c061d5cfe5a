package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Ip-Tec/saze-logistics-sub000/pkg/config"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/status"
)

type MongoRepository struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
}

func NewMongoRepository(cfg *config.MongoDBConfig) (*MongoRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &MongoRepository{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// OrderEvent is one append-only entry in an order's history: a status
// transition or a rider assignment, with the actor that caused it.
type OrderEvent struct {
	ID        string        `bson:"_id,omitempty" json:"id"`
	OrderID   string        `bson:"order_id" json:"order_id"`
	From      status.Status `bson:"from" json:"from"`
	To        status.Status `bson:"to" json:"to"`
	ActorID   string        `bson:"actor_id" json:"actor_id"`
	ActorRole status.Role   `bson:"actor_role" json:"actor_role"`
	RiderID   string        `bson:"rider_id,omitempty" json:"rider_id,omitempty"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}

func (m *MongoRepository) AppendOrderEvent(ctx context.Context, ev *OrderEvent) error {
	collection := m.database.Collection(m.config.Collection)
	ev.CreatedAt = time.Now()
	_, err := collection.InsertOne(ctx, ev)
	return err
}

// ListOrderEvents returns the order's history oldest first.
func (m *MongoRepository) ListOrderEvents(ctx context.Context, orderID string, limit int64) ([]*OrderEvent, error) {
	collection := m.database.Collection(m.config.Collection)

	filter := bson.M{"order_id": orderID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}).SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*OrderEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	return events, nil
}
