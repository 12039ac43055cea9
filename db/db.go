package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when a referenced document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidID is returned for identifiers that do not parse.
	ErrInvalidID = errors.New("invalid document id")
)

// opTimeout bounds every single store call.
const opTimeout = 5 * time.Second

// Store holds the collection handles. It is constructed once in main and
// passed to every handler; nothing reaches for package-level state.
type Store struct {
	client *mongo.Client

	Users       *mongo.Collection
	Chefs       *mongo.Collection
	Recipes     *mongo.Collection
	Ingredients *mongo.Collection
	Comments    *mongo.Collection
}

// Connect dials MongoDB and binds the application collections.
func Connect(uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(opTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	database := client.Database(dbName)
	return &Store{
		client:      client,
		Users:       database.Collection("users"),
		Chefs:       database.Collection("chefs"),
		Recipes:     database.Collection("recipes"),
		Ingredients: database.Collection("ingredients"),
		Comments:    database.Collection("comments"),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Identity resolves a role string into its collection exactly once, at
// the authorization boundary. Anything that is not a chef is a user.
func (s *Store) Identity(role string) *mongo.Collection {
	if role == "chef" {
		return s.Chefs
	}
	return s.Users
}

// WithTimeout derives the per-call context every store operation runs under.
func WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}
