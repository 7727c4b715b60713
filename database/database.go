// Package database holds the document stores for users, food partners and
// food feeds. MongoStore is the production implementation; MemoryStore
// implements the same methods in process for tests and local runs.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	UsersCollection    = "users"
	PartnersCollection = "foodpartners"
	FeedsCollection    = "foodfeeds"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

type MongoStore struct {
	client   *mongo.Client
	users    *mongo.Collection
	partners *mongo.Collection
	feeds    *mongo.Collection
	log      *zap.Logger
}

// Connect opens the client, pings the primary and ensures indexes.
func Connect(ctx context.Context, uri, dbName string, log *zap.Logger) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	log.Info("Connected to MongoDB", zap.String("database", dbName))

	s := newMongoStore(client, client.Database(dbName), log)
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func newMongoStore(client *mongo.Client, db *mongo.Database, log *zap.Logger) *MongoStore {
	return &MongoStore{
		client:   client,
		users:    db.Collection(UsersCollection),
		partners: db.Collection(PartnersCollection),
		feeds:    db.Collection(FeedsCollection),
		log:      log,
	}
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	_, err = s.partners.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "businessEmail", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create foodpartners index: %w", err)
	}
	_, err = s.feeds.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "likes", Value: -1}}},
		{Keys: bson.D{{Key: "views", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create foodfeeds indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// membershipFilter matches the document only when op would change the set:
// $addToSet needs value absent, $pull needs it present.
func membershipFilter(id primitive.ObjectID, op, field string, value primitive.ObjectID) bson.M {
	if op == "$addToSet" {
		return bson.M{"_id": id, field: bson.M{"$ne": value}}
	}
	return bson.M{"_id": id, field: value}
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
