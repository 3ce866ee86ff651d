package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/favtube/internal/domain"
	"github.com/MrSnakeDoc/favtube/internal/logger"
	"github.com/MrSnakeDoc/favtube/internal/store"
	"github.com/MrSnakeDoc/favtube/internal/store/storetest"
)

// Runs against a real server only when FAVTUBE_TEST_MONGODB_URI is set,
// ex: mongodb://localhost:27017
func TestContract(t *testing.T) {
	uri := os.Getenv("FAVTUBE_TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("FAVTUBE_TEST_MONGODB_URI not set")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		ctx := context.Background()
		s, err := New(ctx, ConnectOptions{
			URI:        uri,
			Database:   "favtube_test",
			Collection: "videos_" + domain.NewID().Hex(),
			Retry: store.RetryOptions{
				ConnectTimeout: 5 * time.Second,
				RetryInterval:  100 * time.Millisecond,
				MaxWait:        time.Second,
				PingTimeout:    2 * time.Second,
				WarnThreshold:  3,
			},
		}, logger.NewNop())
		require.NoError(t, err)
		return droppingStore{s}
	})
}

// droppingStore drops its throwaway collection before disconnecting.
type droppingStore struct {
	*Store
}

func (d droppingStore) Close(ctx context.Context) error {
	_ = d.coll.Drop(ctx)
	return d.Store.Close(ctx)
}

func TestNewRejectsBadURI(t *testing.T) {
	_, err := New(context.Background(), ConnectOptions{
		URI:        "postgres://localhost",
		Collection: "videos",
		Retry: store.RetryOptions{
			ConnectTimeout: time.Second,
			RetryInterval:  10 * time.Millisecond,
			MaxWait:        10 * time.Millisecond,
			PingTimeout:    10 * time.Millisecond,
		},
	}, logger.NewNop())
	require.Error(t, err)
}
