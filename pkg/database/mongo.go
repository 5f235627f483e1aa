package database

import (
	"context"
	"fmt"
	"net/url"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sge-edu/sge-api/pkg/config"
)

// NewMongo returns a connected MongoDB database handle.
func NewMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Database, error) {
	uri := cfg.URI
	if uri == "" {
		if cfg.User != "" {
			uri = fmt.Sprintf("mongodb://%s:%s@%s:%d/", url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password), cfg.Host, cfg.Port)
		} else {
			uri = fmt.Sprintf("mongodb://%s:%d/", cfg.Host, cfg.Port)
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client.Database(cfg.Database), nil
}
