// Package testutil provides common test utilities: sqlite databases,
// deterministic IDs, event capture and HTTP helpers.
package testutil

import (
	"testing"
	"time"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/config"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewSQLiteDatabase opens a private in-memory sqlite database with the full
// schema. It is closed when the test ends.
func NewSQLiteDatabase(t *testing.T) *persistence.Database {
	t.Helper()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: ":memory:",
	})
	require.NoError(t, err, "Failed to open sqlite database")
	require.NoError(t, persistence.AutoMigrate(db.DB), "Failed to migrate sqlite schema")

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// NewTestUUID generates a deterministic UUID from seed
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// TestTenantID returns a standard tenant ID for tests
func TestTenantID() uuid.UUID {
	return NewTestUUID("test-tenant")
}

// TestUserID returns a standard user ID for tests
func TestUserID() uuid.UUID {
	return NewTestUUID("test-user")
}

// RequireEventually retries condition until it holds or the timeout passes
func RequireEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}

	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}
