package persistence

import (
	"context"
	"testing"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCustomerRepository(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormCustomerRepository(db.DB)
	ctx := context.Background()
	tenantID := uuid.New()

	acme := seedCustomer(t, db.DB, tenantID, "Acme Traders")
	seedCustomer(t, db.DB, tenantID, "Bharat Stores")
	seedCustomer(t, db.DB, uuid.New(), "Acme Elsewhere")

	t.Run("exists only within its tenant", func(t *testing.T) {
		ok, err := repo.ExistsForTenant(ctx, tenantID, acme.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ExistsForTenant(ctx, uuid.New(), acme.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("save updates an existing customer", func(t *testing.T) {
		c, err := repo.FindByIDForTenant(ctx, tenantID, acme.ID)
		require.NoError(t, err)
		require.NoError(t, c.Update("Acme Traders Pvt Ltd", c.Phone, "billing@acme.in", "", c.Address))
		require.NoError(t, repo.Save(ctx, c))

		reloaded, err := repo.FindByIDForTenant(ctx, tenantID, acme.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Traders Pvt Ltd", reloaded.Name)
		assert.Equal(t, "billing@acme.in", reloaded.Email)
	})

	t.Run("search within tenant", func(t *testing.T) {
		customers, total, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{Page: 1, PageSize: 10, Search: "acme"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, customers, 1)
		assert.Equal(t, acme.ID, customers[0].ID)
	})

	t.Run("missing customer", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, tenantID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
