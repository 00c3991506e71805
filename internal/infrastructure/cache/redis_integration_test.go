//go:build integration

package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newRedisContainer(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := NewRedisClient(config.RedisConfig{Enabled: true, Host: host, Port: port.Int()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisIdempotencyStore(t *testing.T) {
	client := newRedisContainer(t)
	store := NewRedisIdempotencyStore(client, "test:")
	ctx := context.Background()

	fresh, err := store.MarkProcessed(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.MarkProcessed(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.False(t, fresh)

	processed, err := store.IsProcessed(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, processed)

	require.NoError(t, store.Release(ctx, "k1"))
	processed, err = store.IsProcessed(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, processed)

	ttl, err := client.TTL(ctx, "test:k1").Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-2), ttl, "released key must be gone")
}

func TestRedisInvoiceSequence(t *testing.T) {
	client := newRedisContainer(t)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("counts per tenant and period", func(t *testing.T) {
		seq := NewRedisInvoiceSequence(client, nil)
		for want := int64(1); want <= 3; want++ {
			got, err := seq.Next(ctx, tenantID, "202403")
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
		got, err := seq.Next(ctx, tenantID, "202404")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)

		ttl, err := client.TTL(ctx, fmt.Sprintf("invoice:seq:%s:202403", tenantID)).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, 39*24*time.Hour)
	})

	t.Run("fresh counter continues after seeded numbers", func(t *testing.T) {
		seq := NewRedisInvoiceSequence(client, func(context.Context, uuid.UUID, string) (int64, error) {
			return 7, nil
		})
		got, err := seq.Next(ctx, uuid.New(), "202403")
		require.NoError(t, err)
		assert.Equal(t, int64(8), got)
	})

	t.Run("concurrent callers get distinct numbers", func(t *testing.T) {
		seq := NewRedisInvoiceSequence(client, nil)
		other := uuid.New()

		var mu sync.Mutex
		seen := make(map[int64]bool)
		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				n, err := seq.Next(ctx, other, "202403")
				if err != nil {
					return
				}
				mu.Lock()
				seen[n] = true
				mu.Unlock()
			}()
		}
		wg.Wait()
		assert.Len(t, seen, 20)
	})
}
