package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrSnakeDoc/favtube/internal/domain"
	"github.com/MrSnakeDoc/favtube/internal/store"
)

// Store keeps each video as a JSON string plus a set of all IDs
type Store struct {
	client *redis.Client
}

var _ store.Store = (*Store)(nil)

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// List retrieves all videos. Order follows the ID set and is not stable.
func (s *Store) List(ctx context.Context) ([]domain.Video, error) {
	ids, err := s.client.SMembers(ctx, AllVideosKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get video IDs: %w", err)
	}

	videos := make([]domain.Video, 0, len(ids))
	if len(ids) == 0 {
		return videos, nil
	}

	keys := make([]string, 0, len(ids))
	for _, hex := range ids {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			continue
		}
		keys = append(keys, VideoKey(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get videos: %w", err)
	}

	for _, raw := range values {
		// Skip IDs whose value vanished between SMEMBERS and MGET
		str, ok := raw.(string)
		if !ok {
			continue
		}
		var v domain.Video
		if err := json.Unmarshal([]byte(str), &v); err != nil {
			return nil, fmt.Errorf("failed to unmarshal video: %w", err)
		}
		videos = append(videos, v)
	}

	return videos, nil
}

// Get retrieves a video from Redis by ID
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (*domain.Video, error) {
	data, err := s.client.Get(ctx, VideoKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	var v domain.Video
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal video: %w", err)
	}

	return &v, nil
}

// Insert stores a video and registers its ID
func (s *Store) Insert(ctx context.Context, v *domain.Video) (*domain.Video, error) {
	rec := *v
	if rec.ID.IsZero() {
		rec.ID = domain.NewID()
	}
	if err := s.save(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update applies a patch inside WATCH/MULTI on the video key.
// A concurrent write to the same key fails the call with redis.TxFailedErr.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p domain.VideoPatch) (*domain.Video, error) {
	key := VideoKey(id)
	var updated *domain.Video

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return store.ErrNotFound
			}
			return fmt.Errorf("failed to get video: %w", err)
		}

		var v domain.Video
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("failed to unmarshal video: %w", err)
		}
		v.Apply(p)

		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal video: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to save video: %w", err)
		}
		updated = &v
		return nil
	}, key)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a video and returns its last state
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (*domain.Video, error) {
	key := VideoKey(id)

	var get *redis.StringCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.Get(ctx, key)
		pipe.Del(ctx, key)
		pipe.SRem(ctx, AllVideosKey(), id.Hex())
		return nil
	})
	// A missing key fails the GET with redis.Nil; DEL and SREM still ran.
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to delete video: %w", err)
	}

	data, err := get.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to delete video: %w", err)
	}

	var v domain.Video
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal video: %w", err)
	}
	return &v, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close(_ context.Context) error {
	return s.client.Close()
}

func (s *Store) save(ctx context.Context, v *domain.Video) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal video: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, VideoKey(v.ID), data, 0)
		pipe.SAdd(ctx, AllVideosKey(), v.ID.Hex())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save video: %w", err)
	}
	return nil
}
