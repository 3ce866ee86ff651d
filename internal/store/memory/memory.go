package memory

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrSnakeDoc/favtube/internal/domain"
	"github.com/MrSnakeDoc/favtube/internal/store"
)

// Store keeps records in process memory. Data is lost on restart.
// Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	videos map[primitive.ObjectID]domain.Video // ID -> Video
	order  []primitive.ObjectID                // insertion order
}

var _ store.Store = (*Store)(nil)

// New creates an empty memory store
func New() *Store {
	return &Store{
		videos: make(map[primitive.ObjectID]domain.Video),
	}
}

// List returns all records in insertion order
func (s *Store) List(_ context.Context) ([]domain.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	videos := make([]domain.Video, 0, len(s.order))
	for _, id := range s.order {
		videos = append(videos, s.videos[id])
	}
	return videos, nil
}

// Get retrieves a record by ID
func (s *Store) Get(_ context.Context, id primitive.ObjectID) (*domain.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.videos[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &v, nil
}

// Insert adds a record, assigning an ID when missing
func (s *Store) Insert(_ context.Context, v *domain.Video) (*domain.Video, error) {
	rec := *v
	if rec.ID.IsZero() {
		rec.ID = domain.NewID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.videos[rec.ID]; !exists {
		s.order = append(s.order, rec.ID)
	}
	s.videos[rec.ID] = rec
	return &rec, nil
}

// Update applies a patch to an existing record
func (s *Store) Update(_ context.Context, id primitive.ObjectID, p domain.VideoPatch) (*domain.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.videos[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	v.Apply(p)
	s.videos[id] = v
	return &v, nil
}

// Delete removes a record and returns it, or nil when it did not exist
func (s *Store) Delete(_ context.Context, id primitive.ObjectID) (*domain.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.videos[id]
	if !ok {
		return nil, nil
	}
	delete(s.videos, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return &v, nil
}

// Count returns the number of records
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.videos)
}

func (s *Store) Ping(_ context.Context) error  { return nil }
func (s *Store) Close(_ context.Context) error { return nil }
