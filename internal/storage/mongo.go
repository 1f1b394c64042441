package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The snapshot lives in one well-known document so that Save keeps the
// adapter contract's whole-overwrite semantics: ReplaceOne swaps the entire
// graph in a single operation.
const snapshotDocID = "forum-snapshot"

type MongoAdapter struct {
	client    *mongo.Client
	snapshots *mongo.Collection
}

type snapshotDoc struct {
	ID       string    `bson:"_id"`
	Snapshot *Snapshot `bson:"snapshot"`
	SavedAt  time.Time `bson:"savedAt"`
}

func NewMongoAdapter(uri string) (*MongoAdapter, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Ping the database to verify connection
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	log.Println("Successfully connected to MongoDB!")

	db := client.Database("driftwood")
	return &MongoAdapter{
		client:    client,
		snapshots: db.Collection("snapshots"),
	}, nil
}

func (m *MongoAdapter) Load(ctx context.Context) (*Snapshot, error) {
	var doc snapshotDoc
	err := m.snapshots.FindOne(ctx, bson.M{"_id": snapshotDocID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return NewSnapshot(), nil
		}
		return nil, fmt.Errorf("failed to load snapshot: %v", err)
	}
	if doc.Snapshot == nil {
		return NewSnapshot(), nil
	}
	return doc.Snapshot, nil
}

func (m *MongoAdapter) Save(ctx context.Context, snap *Snapshot) error {
	doc := snapshotDoc{
		ID:       snapshotDocID,
		Snapshot: snap,
		SavedAt:  time.Now(),
	}
	_, err := m.snapshots.ReplaceOne(
		ctx,
		bson.M{"_id": snapshotDocID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %v", err)
	}
	return nil
}

func (m *MongoAdapter) Durable() bool { return true }

func (m *MongoAdapter) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
