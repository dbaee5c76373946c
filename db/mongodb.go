package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/launchfold/waitlist-backend/models"
)

// MongoDatabase is a Store backed by a MongoDB collection.
type MongoDatabase struct {
	cfg         Config
	client      *mongo.Client
	subscribers *mongo.Collection
}

// InitMongoDatabase creates a client connection based on information in
// a Config, and returns a pointer to the resulting MongoDatabase
// object. Meant to be called once at process start; the handle is
// shared by every request. If connection fails, returns an error.
func InitMongoDatabase(ctx context.Context, cfg Config) (*MongoDatabase, error) {
	log.Printf("Connecting to document store at %s ...", cfg.DbURI)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.DbURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return &MongoDatabase{
		cfg:         cfg,
		client:      client,
		subscribers: client.Database(cfg.DbName).Collection(cfg.DbSubscriberCollection),
	}, nil
}

// GetSubscriber retrieves the active subscriber with the given
// normalized email, limited to one result. Unsubscribed documents are
// not considered.
func (db *MongoDatabase) GetSubscriber(ctx context.Context, email string) (models.Subscriber, error) {
	var subscriber models.Subscriber
	filter := bson.M{"email": email, "status": models.StatusActive}
	err := db.subscribers.FindOne(ctx, filter).Decode(&subscriber)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Subscriber{}, ErrNoSubscriber
	}
	return subscriber, err
}

// PutSubscriber inserts a new subscriber document. The collection
// carries no unique index on email; callers are expected to check for
// an existing active subscriber first.
func (db *MongoDatabase) PutSubscriber(ctx context.Context, subscriber models.Subscriber) (string, error) {
	result, err := db.subscribers.InsertOne(ctx, subscriber)
	if err != nil {
		return "", err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprintf("%v", result.InsertedID), nil
}

// GetActiveSubscribers retrieves every subscriber with active status.
func (db *MongoDatabase) GetActiveSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	cursor, err := db.subscribers.Find(ctx, bson.M{"status": models.StatusActive})
	if err != nil {
		return nil, err
	}
	subscribers := []models.Subscriber{}
	if err := cursor.All(ctx, &subscribers); err != nil {
		return nil, err
	}
	return subscribers, nil
}

// ClearCollections empties the subscriber collection. For tests.
func (db *MongoDatabase) ClearCollections(ctx context.Context) error {
	return db.subscribers.Drop(ctx)
}

// Close disconnects the shared client.
func (db *MongoDatabase) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}
