// Package seed loads initial records from a YAML file.
package seed

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/favtube/internal/domain"
	"github.com/MrSnakeDoc/favtube/internal/logger"
	"github.com/MrSnakeDoc/favtube/internal/store"
)

// Loader handles loading and parsing of a seed file:
//
//	- title: Go Concurrency Patterns
//	  description: Rob Pike at Google I/O 2012
//	  youtuberName: Google for Developers
//	  watched: true
type Loader struct {
	filePath string
}

// NewLoader creates a new seed loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads the file and validates every entry with the same rules as
// record creation. Any invalid entry fails the whole load.
func (l *Loader) Load() ([]*domain.Video, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var entries []map[string]any
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}

	videos := make([]*domain.Video, 0, len(entries))
	for i, raw := range entries {
		v, err := domain.NewVideo(raw)
		if err != nil {
			return nil, fmt.Errorf("seed entry %d: %w", i, err)
		}
		videos = append(videos, v)
	}
	return videos, nil
}

// Seed inserts the file's records when the store is empty and returns how
// many were inserted. A store that already holds records is left alone.
func (l *Loader) Seed(ctx context.Context, s store.Store, log logger.Logger) (int, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list existing records: %w", err)
	}
	if len(existing) > 0 {
		log.Info("store not empty, skipping seed",
			logger.Int("records", len(existing)),
			logger.String("file", l.filePath))
		return 0, nil
	}

	videos, err := l.Load()
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, v := range videos {
		if _, err := s.Insert(ctx, v); err != nil {
			return inserted, fmt.Errorf("failed to insert seed record %q: %w", v.Title, err)
		}
		inserted++
	}

	log.Info("seeded store",
		logger.Int("records", inserted),
		logger.String("file", l.filePath))
	return inserted, nil
}
