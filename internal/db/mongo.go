package db

import (
	"context"
	"fmt"

	"vigat-bahee/internal/config"
	"vigat-bahee/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionUsers      = "users"
	CollectionHeaders    = "bahee_headers"
	CollectionEntries    = "bahee_entries"
	CollectionReturnNets = "return_net_logs"
)

func NewMongo(ctx context.Context, cfg config.MongoConfig, log logger.Logger) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	log.Info("db: connecting to mongo", "database", cfg.Database)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	log.Info("db: connected", "driver", config.DriverMongo)
	return client, nil
}

// EnsureMongoIndexes creates the unique and lookup indexes the repositories
// rely on. Safe to run on every start.
func EnsureMongoIndexes(ctx context.Context, database *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		CollectionUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionHeaders: {
			{
				Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "category", Value: 1}, {Key: "name_key", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("ux_bahee_headers_owner_name"),
			},
		},
		CollectionEntries: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "category", Value: 1}, {Key: "header_name", Value: 1}}},
		},
		CollectionReturnNets: {
			{Keys: bson.D{{Key: "entry_key", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for collection, models := range indexes {
		if _, err := database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
