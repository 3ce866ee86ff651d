// Package store defines the document store contract shared by every backend.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrSnakeDoc/favtube/internal/domain"
)

// ErrNotFound is returned by Get and Update when no record has the given id.
var ErrNotFound = errors.New("document not found")

// Store is the document store adapter used by the HTTP handlers.
//
// Implementations return copies: mutating a returned Video never changes
// the stored record.
type Store interface {
	// List returns every record in backend-native order.
	List(ctx context.Context) ([]domain.Video, error)

	// Get returns the record with id, or ErrNotFound.
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Video, error)

	// Insert persists v, assigning a fresh id when v.ID is zero, and returns
	// the stored record.
	Insert(ctx context.Context, v *domain.Video) (*domain.Video, error)

	// Update applies p to the record and returns its new state, or ErrNotFound.
	// An empty patch behaves like Get.
	Update(ctx context.Context, id primitive.ObjectID, p domain.VideoPatch) (*domain.Video, error)

	// Delete removes the record and returns its last state. A missing id is
	// not an error: Delete returns (nil, nil).
	Delete(ctx context.Context, id primitive.ObjectID) (*domain.Video, error)

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close(ctx context.Context) error
}
