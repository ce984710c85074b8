package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoEvent struct {
	ID         string    `bson:"_id"`
	EstimateID string    `bson:"estimate_id"`
	Action     string    `bson:"action"`
	From       string    `bson:"from,omitempty"`
	To         string    `bson:"to"`
	Actor      string    `bson:"actor,omitempty"`
	At         time.Time `bson:"at"`
}

type MongoSink struct {
	client     *mongo.Client
	collection *mongo.Collection
}

var _ Sink = (*MongoSink)(nil)

func NewMongoSink(ctx context.Context, uri, database, collection string) (*MongoSink, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "estimate_id", Value: 1}, {Key: "at", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create audit index: %w", err)
	}

	return &MongoSink{client: client, collection: coll}, nil
}

func (m *MongoSink) Record(ctx context.Context, e Event) error {
	_, err := m.collection.InsertOne(ctx, mongoEvent{
		ID:         e.ID.String(),
		EstimateID: e.EstimateID.String(),
		Action:     e.Action,
		From:       string(e.From),
		To:         string(e.To),
		Actor:      e.Actor,
		At:         e.At,
	})
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}
	return nil
}

func (m *MongoSink) History(ctx context.Context, estimateID uuid.UUID, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: 1}}).SetLimit(int64(limit))

	cursor, err := m.collection.Find(ctx, bson.M{"estimate_id": estimateID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoEvent
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode audit events: %w", err)
	}

	events := make([]Event, 0, len(docs))
	for _, d := range docs {
		events = append(events, fromMongo(d))
	}
	return events, nil
}

func (m *MongoSink) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func fromMongo(d mongoEvent) Event {
	id, _ := uuid.Parse(d.ID)
	estimateID, _ := uuid.Parse(d.EstimateID)
	return Event{
		ID:         id,
		EstimateID: estimateID,
		Action:     d.Action,
		From:       statusOf(d.From),
		To:         statusOf(d.To),
		Actor:      d.Actor,
		At:         d.At,
	}
}
