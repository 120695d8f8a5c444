package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names. They match the lowercase entity names.
const (
	UserCollection                 = "user"
	ProjectCollection              = "project"
	ChatMessageCollection          = "chatmessage"
	CollaborationRequestCollection = "collaborationrequest"
)

// Collections lists every collection the backend addresses.
var Collections = []string{
	UserCollection,
	ProjectCollection,
	ChatMessageCollection,
	CollaborationRequestCollection,
}

// Connect opens a client against uri and pings it before handing back the
// named database.
func Connect(ctx context.Context, uri, name string) (*mongo.Database, error) {
	opts := options.Client().ApplyURI(uri).SetConnectTimeout(10 * time.Second)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(name), nil
}

// Disconnect closes the client behind db.
func Disconnect(ctx context.Context, db *mongo.Database) error {
	return db.Client().Disconnect(ctx)
}

// EnsureIndexes creates the lookup indexes used by the repositories. None of
// them are unique.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		UserCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		ProjectCollection: {
			{Keys: bson.D{{Key: "updated_at", Value: -1}}},
			{Keys: bson.D{{Key: "createdBy", Value: 1}}},
		},
		ChatMessageCollection: {
			{Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
		CollaborationRequestCollection: {
			{Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "senderUserId", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Status describes the backing store for the introspection endpoint.
type Status struct {
	Driver      string
	Name        string
	Collections []string
}

// Inspector reports on the backing store.
type Inspector interface {
	Inspect(ctx context.Context) (*Status, error)
}

type mongoInspector struct {
	db *mongo.Database
}

func NewMongoInspector(db *mongo.Database) Inspector {
	return &mongoInspector{db: db}
}

func (i *mongoInspector) Inspect(ctx context.Context) (*Status, error) {
	names, err := i.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return &Status{Driver: "mongo", Name: i.db.Name()}, err
	}
	return &Status{Driver: "mongo", Name: i.db.Name(), Collections: names}, nil
}

type memoryInspector struct{}

// NewMemoryInspector reports the in-process store.
func NewMemoryInspector() Inspector {
	return memoryInspector{}
}

func (memoryInspector) Inspect(context.Context) (*Status, error) {
	return &Status{Driver: "memory", Name: "memory", Collections: append([]string(nil), Collections...)}, nil
}
