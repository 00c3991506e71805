package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormInvoiceSequenceRepository_Next(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormInvoiceSequenceRepository(db.DB)
	ctx := context.Background()
	tenantA := uuid.New()
	tenantB := uuid.New()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.Next(ctx, tenantA, "202403")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	t.Run("tenants count independently", func(t *testing.T) {
		got, err := repo.Next(ctx, tenantB, "202403")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)
	})

	t.Run("a new month starts over", func(t *testing.T) {
		got, err := repo.Next(ctx, tenantA, "202404")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)
	})

	t.Run("invalid period", func(t *testing.T) {
		_, err := repo.Next(ctx, tenantA, "2024-3")
		assert.Error(t, err)
	})
}

func TestGormInvoiceSequenceRepository_SeedsFromExistingInvoices(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, db *gorm.DB, tenantID uuid.UUID, numbers ...string) {
		t.Helper()
		p := seedProduct(t, db, tenantID, "Widget", 10)
		c := seedCustomer(t, db, tenantID, "Acme")
		for _, n := range numbers {
			inv := newPricedInvoice(t, tenantID, c.ID, n, p, 1, decimal.Zero)
			require.NoError(t, NewGormInvoiceRepository(db).Create(ctx, inv))
		}
	}

	t.Run("continues after the highest number, not the count", func(t *testing.T) {
		db := newTestDatabase(t)
		tenantID := uuid.New()
		seed(t, db.DB, tenantID, "202403-001", "202403-003", "202402-009")

		repo := NewGormInvoiceSequenceRepository(db.DB)
		got, err := repo.Next(ctx, tenantID, "202403")
		require.NoError(t, err)
		assert.Equal(t, int64(4), got)

		got, err = repo.Next(ctx, tenantID, "202403")
		require.NoError(t, err)
		assert.Equal(t, int64(5), got)
	})

	t.Run("catches up with numbers issued past the counter", func(t *testing.T) {
		db := newTestDatabase(t)
		tenantID := uuid.New()
		repo := NewGormInvoiceSequenceRepository(db.DB)

		got, err := repo.Next(ctx, tenantID, "202403")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)

		seed(t, db.DB, tenantID, "202403-001", "202403-007")

		got, err = repo.Next(ctx, tenantID, "202403")
		require.NoError(t, err)
		assert.Equal(t, int64(8), got)
	})

	t.Run("other tenants are ignored", func(t *testing.T) {
		db := newTestDatabase(t)
		seed(t, db.DB, uuid.New(), "202403-004")

		got, err := NewGormInvoiceSequenceRepository(db.DB).Next(ctx, uuid.New(), "202403")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)
	})
}

func TestGormInvoiceSequenceRepository_RollbackReturnsNumber(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	tenantID := uuid.New()
	errAbort := errors.New("abort")

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		n, err := NewGormInvoiceSequenceRepository(tx).Next(ctx, tenantID, "202403")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	n, err := NewGormInvoiceSequenceRepository(db.DB).Next(ctx, tenantID, "202403")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGormInvoiceSequenceRepository_Used(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormInvoiceSequenceRepository(db.DB)
	ctx := context.Background()
	tenantID := uuid.New()

	used, err := repo.Used(ctx, tenantID, "202405")
	require.NoError(t, err)
	assert.Equal(t, int64(0), used)

	for range 4 {
		_, err := repo.Next(ctx, tenantID, "202405")
		require.NoError(t, err)
	}
	used, err = repo.Used(ctx, tenantID, "202405")
	require.NoError(t, err)
	assert.Equal(t, int64(4), used)

	p := seedProduct(t, db.DB, tenantID, "Widget", 10)
	c := seedCustomer(t, db.DB, tenantID, "Acme")
	for _, n := range []string{"202406-002", "202406-006"} {
		require.NoError(t, NewGormInvoiceRepository(db.DB).Create(ctx, newPricedInvoice(t, tenantID, c.ID, n, p, 1, decimal.Zero)))
	}
	used, err = repo.Used(ctx, tenantID, "202406")
	require.NoError(t, err)
	assert.Equal(t, int64(6), used)

	_, err = repo.Used(ctx, tenantID, "2024-05")
	assert.Error(t, err)
}
