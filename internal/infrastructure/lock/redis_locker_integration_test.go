//go:build integration

package lock

import (
	"context"
	"testing"
	"time"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newRedisClient(t *testing.T) *redis.Client {
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
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisInvoiceLocker(t *testing.T) {
	client := newRedisClient(t)
	l := NewRedisInvoiceLocker(client, nil)
	l.wait = 200 * time.Millisecond
	tenantID, invoiceID := uuid.New(), uuid.New()
	ctx := context.Background()

	unlock, err := l.Lock(ctx, tenantID, invoiceID)
	require.NoError(t, err)

	_, err = l.Lock(ctx, tenantID, invoiceID)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	other, err := l.Lock(ctx, tenantID, uuid.New())
	require.NoError(t, err)
	other()

	unlock()
	again, err := l.Lock(ctx, tenantID, invoiceID)
	require.NoError(t, err)
	again()
}
