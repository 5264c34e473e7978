package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionSlots = "console_slots"
	defaultTimeout  = 10 * time.Second
)

// Config captures the minimal settings required to reach the slot database.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// SlotStore keeps each console slot as one document: {_id: <slot>, value: <string>}.
type SlotStore struct {
	col *mongo.Collection
}

func NewSlotStore(db *mongo.Database) *SlotStore {
	return &SlotStore{col: db.Collection(collectionSlots)}
}

// Open establishes a MongoDB client, verifies connectivity with a ping and
// returns a SlotStore bound to cfg.Database. A default timeout is applied
// when none is provided.
func Open(ctx context.Context, cfg Config) (*SlotStore, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI).SetAppName("admin-console"))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return NewSlotStore(client.Database(cfg.Database)), nil
}

// Close disconnects the underlying client.
func (s *SlotStore) Close(ctx context.Context) error {
	return s.col.Database().Client().Disconnect(ctx)
}

type slotDocument struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

func (s *SlotStore) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc slotDocument
	err := s.col.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("find slot %s: %w", key, err)
	}
	return doc.Value, true, nil
}

// Set upserts the slot document.
func (s *SlotStore) Set(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.col.ReplaceOne(ctx,
		bson.M{"_id": key},
		slotDocument{Key: key, Value: value},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert slot %s: %w", key, err)
	}
	return nil
}

func (s *SlotStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete slot %s: %w", key, err)
	}
	return nil
}

// Ping checks that the server answers commands on the slot database.
func (s *SlotStore) Ping(ctx context.Context) error {
	return s.col.Database().RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}
