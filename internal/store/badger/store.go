package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrSnakeDoc/favtube/internal/domain"
	"github.com/MrSnakeDoc/favtube/internal/logger"
	"github.com/MrSnakeDoc/favtube/internal/store"
)

// keyPrefix scopes every video key: video:<hex id>
var keyPrefix = []byte("video:")

// Store is an embedded BadgerDB backend.
type Store struct {
	db  *badger.DB
	log logger.Logger
}

var _ store.Store = (*Store)(nil)

// Open opens (or creates) the database at path.
func Open(path string, log logger.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(&badgerLogger{log: log})
	return open(opts, log)
}

// OpenInMemory opens a database that lives only in memory.
func OpenInMemory(log logger.Logger) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(&badgerLogger{log: log})
	return open(opts, log)
}

func open(opts badger.Options, log logger.Logger) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db at %q: %w", opts.Dir, err)
	}
	log.Info("badger opened",
		logger.String("path", opts.Dir),
		logger.Bool("in_memory", opts.InMemory))
	return &Store{db: db, log: log}, nil
}

func videoKey(id primitive.ObjectID) []byte {
	return append(append([]byte{}, keyPrefix...), id.Hex()...)
}

// List returns every video in key order (ObjectIDs sort by creation time).
func (s *Store) List(_ context.Context) ([]domain.Video, error) {
	videos := []domain.Video{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
			var v domain.Video
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &v)
			}); err != nil {
				return fmt.Errorf("failed to decode %s: %w", it.Item().Key(), err)
			}
			videos = append(videos, v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

func (s *Store) Get(_ context.Context, id primitive.ObjectID) (*domain.Video, error) {
	var v *domain.Video
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		v, err = get(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Store) Insert(_ context.Context, v *domain.Video) (*domain.Video, error) {
	rec := *v
	if rec.ID.IsZero() {
		rec.ID = domain.NewID()
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return put(txn, &rec)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert video: %w", err)
	}
	return &rec, nil
}

func (s *Store) Update(_ context.Context, id primitive.ObjectID, p domain.VideoPatch) (*domain.Video, error) {
	var v *domain.Video
	err := s.db.Update(func(txn *badger.Txn) error {
		var err error
		if v, err = get(txn, id); err != nil {
			return err
		}
		if p.IsEmpty() {
			return nil
		}
		v.Apply(p)
		return put(txn, v)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Store) Delete(_ context.Context, id primitive.ObjectID) (*domain.Video, error) {
	var v *domain.Video
	err := s.db.Update(func(txn *badger.Txn) error {
		var err error
		if v, err = get(txn, id); err != nil {
			return err
		}
		return txn.Delete(videoKey(id))
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete video: %w", err)
	}
	return v, nil
}

// Ping reports whether the database is still open.
func (s *Store) Ping(_ context.Context) error {
	if s.db.IsClosed() {
		return badger.ErrDBClosed
	}
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.log.Info("closing badger")
	return s.db.Close()
}

// CollectGarbage runs value log GC until badger reports nothing left to
// rewrite and returns the number of rewritten files.
func (s *Store) CollectGarbage(discardRatio float64) (int, error) {
	rewrites := 0
	for {
		err := s.db.RunValueLogGC(discardRatio)
		switch {
		case err == nil:
			rewrites++
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrRejected), errors.Is(err, badger.ErrGCInMemoryMode):
			return rewrites, nil
		default:
			return rewrites, fmt.Errorf("value log gc: %w", err)
		}
	}
}

func get(txn *badger.Txn, id primitive.ObjectID) (*domain.Video, error) {
	item, err := txn.Get(videoKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	var v domain.Video
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &v)
	}); err != nil {
		return nil, fmt.Errorf("failed to decode video: %w", err)
	}
	return &v, nil
}

func put(txn *badger.Txn, v *domain.Video) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal video: %w", err)
	}
	return txn.Set(videoKey(v.ID), data)
}
