// Package mongo stores the learner activity log (purchases, completions,
// balance changes) in MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultDatabase = "course_marketplace"
	defaultAppName  = "course-marketplace"
)

// Config locates the activity log. Database and AppName fall back to the
// marketplace defaults; Timeout bounds connect and the startup ping.
type Config struct {
	URI      string
	Database string
	AppName  string
	Timeout  time.Duration
}

func (c Config) withDefaults() Config {
	if c.Database == "" {
		c.Database = defaultDatabase
	}
	if c.AppName == "" {
		c.AppName = defaultAppName
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

// Connect opens the activity log database. The server only enables activity
// recording after the ping succeeds, so an unreachable deployment fails here
// instead of on the first event.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	cfg = cfg.withDefaults()
	if cfg.URI == "" {
		return nil, nil, fmt.Errorf("mongo connect: empty uri")
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetAppName(cfg.AppName))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping %s: %w", cfg.Database, err)
	}
	return client, client.Database(cfg.Database), nil
}

// Ping backs the mongodb entry of the readiness check.
func Ping(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, nil)
}
