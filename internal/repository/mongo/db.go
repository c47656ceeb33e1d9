package mongo

import (
	"context"
	"fmt"

	"github.com/converso/chat-api/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	sessionCollection = "chat_sessions"
	messageCollection = "chat_messages"
)

// DB wraps the Mongo client and the application database
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewDB connects to Mongo and verifies the connection
func NewDB(ctx context.Context, cfg config.MongoConfig) (*DB, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	return &DB{client: client, db: client.Database(cfg.Database)}, nil
}

// Ping verifies the connection is still alive
func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

// Close disconnects the underlying client
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

func (d *DB) sessions() *mongo.Collection {
	return d.db.Collection(sessionCollection)
}

func (d *DB) messages() *mongo.Collection {
	return d.db.Collection(messageCollection)
}
