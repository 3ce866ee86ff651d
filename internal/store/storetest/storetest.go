// Package storetest holds the behavior every store.Store must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/favtube/internal/domain"
	"github.com/MrSnakeDoc/favtube/internal/store"
)

// Factory returns an empty store. The suite closes it when the test ends,
// before any cleanup registered by the factory.
type Factory func(t *testing.T) store.Store

// closeTimeout bounds Store.Close in the suite.
const closeTimeout = 10 * time.Second

// closeWithin closes s and fails the test when Close errors or does not
// return within d.
func closeWithin(t *testing.T, s store.Store, d time.Duration) {
	t.Helper()

	done := make(chan error, 1)
	go func() { done <- s.Close(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err, "Close")
	case <-time.After(d):
		t.Errorf("Close did not return within %v", d)
	}
}

func sample(title string) *domain.Video {
	return &domain.Video{
		Title:        title,
		Description:  "a talk about " + title,
		YoutuberName: "GopherCon",
	}
}

func ptr[T any](v T) *T { return &v }

// Run executes the contract suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	open := func(t *testing.T) store.Store {
		s := newStore(t)
		// Cleanups run last-in first-out: the store closes before the
		// factory's own cleanups (t.TempDir removal, collection drop) run.
		t.Cleanup(func() { closeWithin(t, s, closeTimeout) })
		return s
	}

	t.Run("InsertAssignsDistinctIDs", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		a, err := s.Insert(ctx, sample("generics"))
		require.NoError(t, err)
		b, err := s.Insert(ctx, sample("iterators"))
		require.NoError(t, err)

		assert.False(t, a.ID.IsZero())
		assert.False(t, b.ID.IsZero())
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("InsertKeepsProvidedID", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		v := sample("pgo")
		v.ID = domain.NewID()
		got, err := s.Insert(ctx, v)
		require.NoError(t, err)
		assert.Equal(t, v.ID, got.ID)
	})

	t.Run("GetRoundTrip", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		v := sample("fuzzing")
		v.ThumbnailURL = "https://i.ytimg.com/vi/abc/hqdefault.jpg"
		v.Watched = true
		created, err := s.Insert(ctx, v)
		require.NoError(t, err)

		got, err := s.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, *created, *got)
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := open(t)
		_, err := s.Get(context.Background(), domain.NewID())
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("ListReturnsEverything", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		empty, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, empty)

		for _, title := range []string{"a", "b", "c"} {
			_, err := s.Insert(ctx, sample(title))
			require.NoError(t, err)
		}

		all, err := s.List(ctx)
		require.NoError(t, err)
		titles := make([]string, 0, len(all))
		for _, v := range all {
			titles = append(titles, v.Title)
		}
		assert.ElementsMatch(t, []string{"a", "b", "c"}, titles)
	})

	t.Run("UpdateIsPartial", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		v := sample("profiling")
		v.ThumbnailURL = "https://example.com/thumb.jpg"
		created, err := s.Insert(ctx, v)
		require.NoError(t, err)

		updated, err := s.Update(ctx, created.ID, domain.VideoPatch{Watched: ptr(true)})
		require.NoError(t, err)
		assert.True(t, updated.Watched)
		assert.Equal(t, created.Title, updated.Title)
		assert.Equal(t, created.Description, updated.Description)
		assert.Equal(t, created.YoutuberName, updated.YoutuberName)
		assert.Equal(t, created.ThumbnailURL, updated.ThumbnailURL)
		assert.Equal(t, created.ID, updated.ID)

		got, err := s.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, *updated, *got)
	})

	t.Run("UpdateEmptyPatch", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		created, err := s.Insert(ctx, sample("noop"))
		require.NoError(t, err)

		got, err := s.Update(ctx, created.ID, domain.VideoPatch{})
		require.NoError(t, err)
		assert.Equal(t, *created, *got)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		s := open(t)
		_, err := s.Update(context.Background(), domain.NewID(), domain.VideoPatch{Title: ptr("x")})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("DeleteReturnsSnapshot", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		created, err := s.Insert(ctx, sample("delete me"))
		require.NoError(t, err)

		deleted, err := s.Delete(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, deleted)
		assert.Equal(t, *created, *deleted)

		_, err = s.Get(ctx, created.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)

		again, err := s.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, again)
	})

	t.Run("ReturnedRecordsAreCopies", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		created, err := s.Insert(ctx, sample("aliasing"))
		require.NoError(t, err)
		created.Title = "mutated"

		got, err := s.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "aliasing", got.Title)
	})

	t.Run("Ping", func(t *testing.T) {
		s := open(t)
		assert.NoError(t, s.Ping(context.Background()))
	})
}
