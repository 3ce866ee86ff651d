package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/favtube/internal/domain"
	"github.com/MrSnakeDoc/favtube/internal/logger"
	"github.com/MrSnakeDoc/favtube/internal/store"
	"github.com/MrSnakeDoc/favtube/internal/store/storetest"
)

// Runs against a real server only when FAVTUBE_TEST_REDIS_ADDR is set.
// The suite flushes the selected DB (15), never point it at real data.
func TestContract(t *testing.T) {
	addr := os.Getenv("FAVTUBE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FAVTUBE_TEST_REDIS_ADDR not set")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		ctx := context.Background()
		client, err := Connect(ctx, ConnectOptions{
			Addr:    addr,
			RedisDB: 15,
			Retry: store.RetryOptions{
				ConnectTimeout: 5 * time.Second,
				RetryInterval:  100 * time.Millisecond,
				MaxWait:        time.Second,
				PingTimeout:    time.Second,
				WarnThreshold:  3,
			},
		}, logger.NewNop())
		require.NoError(t, err)
		require.NoError(t, client.FlushDB(ctx).Err())
		return NewStore(client)
	})
}

func TestKeys(t *testing.T) {
	id := domain.NewID()

	key := VideoKey(id)
	assert.Equal(t, KeyPrefixVideo+id.Hex(), key)

	got, err := ExtractVideoID(key)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ExtractVideoID(KeyPrefixVideo)
	assert.Error(t, err)
	_, err = ExtractVideoID(KeyPrefixVideo + "zz")
	assert.Error(t, err)
}
