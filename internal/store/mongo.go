package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lgbarn/chessrules-go/internal/replay"
)

// GamesCollection is the collection holding replayed game records.
const GamesCollection = "games"

const mongoTimeout = 5 * time.Second

// MongoArchive keeps game records in a MongoDB collection keyed by _id.
type MongoArchive struct {
	coll *mongo.Collection
}

// NewMongoArchive uses the games collection of db.
func NewMongoArchive(db *mongo.Database) *MongoArchive {
	return &MongoArchive{coll: db.Collection(GamesCollection)}
}

// OpenMongo connects to uri and pings the server.
func OpenMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctxConnect, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctxConnect, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctxConnect, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return client, nil
}

// Put inserts or replaces rec.
func (a *MongoArchive) Put(ctx context.Context, rec *replay.GameRecord) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	filter := bson.D{{Key: "_id", Value: rec.ID}}
	opts := options.Replace().SetUpsert(true)
	if _, err := a.coll.ReplaceOne(ctx, filter, rec, opts); err != nil {
		return fmt.Errorf("archiving game %s: %w", rec.ID, err)
	}
	return nil
}

// Get returns the record stored under id.
func (a *MongoArchive) Get(ctx context.Context, id string) (*replay.GameRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	var rec replay.GameRecord
	err := a.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching game %s: %w", id, err)
	}
	return &rec, nil
}
