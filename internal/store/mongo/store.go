package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/MrSnakeDoc/favtube/internal/domain"
	"github.com/MrSnakeDoc/favtube/internal/logger"
	"github.com/MrSnakeDoc/favtube/internal/store"
)

// DefaultDatabase is used when neither the options nor the URI name one.
const DefaultDatabase = "test"

// ConnectOptions defines how to reach the collection.
type ConnectOptions struct {
	URI        string // connection string (may carry credentials, never logged)
	Database   string // optional, overrides the database of the URI
	Collection string // ex: "favyoutubevideos"
	Retry      store.RetryOptions
}

// Store is the MongoDB document store adapter. One client is shared by
// every request for the lifetime of the process.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// New connects to MongoDB, retrying pings until opts.Retry.ConnectTimeout.
func New(ctx context.Context, opts ConnectOptions, log logger.Logger) (*Store, error) {
	cs, err := connstring.ParseAndValidate(opts.URI)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}

	database := opts.Database
	if database == "" {
		database = cs.Database
	}
	if database == "" {
		database = DefaultDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(opts.URI).
		SetServerSelectionTimeout(opts.Retry.PingTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongodb client: %w", err)
	}

	ping := func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
	if err := store.ConnectWithRetry(ctx, "mongodb", strings.Join(cs.Hosts, ","), ping, opts.Retry, log); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return NewWithClient(client, database, opts.Collection), nil
}

// NewWithClient wraps an already connected client.
func NewWithClient(client *mongo.Client, database, collection string) *Store {
	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

// List returns every record in natural order
func (s *Store) List(ctx context.Context) ([]domain.Video, error) {
	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	videos := []domain.Video{}
	if err := cur.All(ctx, &videos); err != nil {
		return nil, fmt.Errorf("failed to decode videos: %w", err)
	}
	return videos, nil
}

// Get retrieves a record by ID
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (*domain.Video, error) {
	var v domain.Video
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return &v, nil
}

// Insert stores a new record
func (s *Store) Insert(ctx context.Context, v *domain.Video) (*domain.Video, error) {
	rec := *v
	if rec.ID.IsZero() {
		rec.ID = domain.NewID()
	}

	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to insert video: %w", err)
	}
	return &rec, nil
}

// Update sets the patch fields and returns the updated record
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p domain.VideoPatch) (*domain.Video, error) {
	if p.IsEmpty() {
		// $set with no field is rejected by the server.
		return s.Get(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M(p.Fields())}

	var v domain.Video
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&v)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update video: %w", err)
	}
	return &v, nil
}

// Delete removes a record and returns its pre-deletion state
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (*domain.Video, error) {
	var v domain.Video
	err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&v)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to delete video: %w", err)
	}
	return &v, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
