package mongo

import (
	"context"
	"fmt"
	"geopost-service/internal/config"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const maxConnectWait = time.Minute

// Connection wraps the client and the service database
type Connection struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Connect creates the client and pings the primary until it answers or a
// minute has passed
func Connect(ctx context.Context, cfg *config.MongoDBConfig) (*Connection, error) {
	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.PoolSize).
		SetTimeout(cfg.Timeout)

	client, err := mongo.Connect(clientOptions)
	if err != nil {
		log.Printf("Error connecting to MongoDB: %v", err)
		return nil, err
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxConnectWait

	ping := func() error {
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		defer pingCancel()

		err := client.Ping(pingCtx, readpref.Primary())
		if err != nil {
			log.Printf("Error pinging MongoDB, retrying: %v", err)
		}
		return err
	}

	if err := backoff.Retry(ping, backoff.WithContext(b, ctx)); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("MongoDB unreachable: %w", err)
	}

	log.Printf("Successfully connected to MongoDB database: %s", cfg.Database)
	return &Connection{
		Client:   client,
		Database: client.Database(cfg.Database),
	}, nil
}

// Close closes the MongoDB connection
func (c *Connection) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.Client.Disconnect(ctx); err != nil {
		log.Printf("Error disconnecting from MongoDB: %v", err)
	}
}

