// Package mongodb implements the domain repositories on a MongoDB document
// store. Uniqueness of usernames and titles is enforced by unique indexes
// created in Migrate.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/msomdec/inkwell/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection = "users"
	postsCollection = "posts"
)

// DB wraps a MongoDB client and implements domain.Database.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
	users  *UserRepository
	posts  *PostRepository
}

// New connects to the MongoDB deployment at uri and selects database name.
func New(ctx context.Context, uri, name string) (*DB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	database := client.Database(name)
	return &DB{
		client: client,
		db:     database,
		users:  &UserRepository{coll: database.Collection(usersCollection)},
		posts: &PostRepository{
			coll:  database.Collection(postsCollection),
			users: usersCollection,
		},
	}, nil
}

// Migrate creates the indexes the repositories rely on. It is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("create users index: %w", err)
	}

	if _, err := db.db.Collection(postsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
		},
	}); err != nil {
		return fmt.Errorf("create posts indexes: %w", err)
	}
	return nil
}

func (db *DB) Close() error {
	return db.client.Disconnect(context.Background())
}

func (db *DB) Users() domain.UserRepository { return db.users }

func (db *DB) Posts() domain.PostRepository { return db.posts }

// objectID converts a domain ID to an ObjectID. A malformed ID cannot name
// any document, so it maps to ErrNotFound.
func objectID(id domain.ID) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return primitive.NilObjectID, domain.ErrNotFound
	}
	return oid, nil
}

// Drop deletes the whole database. Intended for tests and local resets.
func (db *DB) Drop(ctx context.Context) error {
	return db.db.Drop(ctx)
}
