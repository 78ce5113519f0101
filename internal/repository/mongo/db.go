package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// DB wraps the driver client and the application database handle.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

type Config struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

func NewDB(cfg Config) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := &DB{client: client, db: client.Database(cfg.Database)}
	if err := db.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

func (d *DB) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	for col, keys := range map[string]bson.D{
		"patients": {{Key: "email", Value: 1}},
		"doctors":  {{Key: "email", Value: 1}},
	} {
		_, err := d.db.Collection(col).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    keys,
			Options: unique,
		})
		if err != nil {
			return fmt.Errorf("failed to create %s index: %w", col, err)
		}
	}
	return nil
}

func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}
