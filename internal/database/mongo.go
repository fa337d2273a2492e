package database

import (
	"context"
	"fmt"
	"time"

	"github.com/comments-api/internal/config"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo holds a connected client and the comments collection
type Mongo struct {
	Client     *mongo.Client
	Collection *mongo.Collection
	log        zerolog.Logger
}

// NewMongo connects to MongoDB and prepares the comments collection
func NewMongo(cfg *config.MongoConfig, log zerolog.Logger) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)

	m := &Mongo{
		Client:     client,
		Collection: coll,
		log:        log.With().Str("component", "database").Str("dialect", "mongo").Logger(),
	}

	if err := m.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	m.log.Info().
		Str("database", cfg.Database).
		Str("collection", cfg.Collection).
		Msg("Mongo connection established")

	return m, nil
}

// EnsureIndexes creates the postId lookup index if it is missing
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	name, err := m.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create postId index: %w", err)
	}
	m.log.Debug().Str("index", name).Msg("Index ensured")
	return nil
}

// Close disconnects the client
func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
