package cache

import (
	"testing"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// An unroutable port makes the PING fail fast
var unreachableRedis = config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

func TestIdempotencyStoreFactory_CreateStore(t *testing.T) {
	t.Run("redis disabled uses memory", func(t *testing.T) {
		store, err := NewIdempotencyStoreFactory(config.RedisConfig{}).CreateStore()
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("unreachable redis falls back", func(t *testing.T) {
		store, err := NewIdempotencyStoreFactory(unreachableRedis).CreateStore()
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("unreachable redis without fallback fails", func(t *testing.T) {
		_, err := NewIdempotencyStoreFactory(unreachableRedis, WithInMemoryFallback(false)).CreateStore()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis required")
	})
}
