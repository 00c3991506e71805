package persistence

import (
	"context"
	"testing"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/inventory"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/partner"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedProduct(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name string, stock int) *inventory.Product {
	t.Helper()

	p, err := inventory.NewProduct(tenantID, name, "SKU-"+name, decimal.NewFromInt(250), decimal.NewFromInt(180))
	require.NoError(t, err)
	p.Stock = stock
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), p))
	return p
}

func seedCustomer(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name string) *partner.Customer {
	t.Helper()

	c, err := partner.NewCustomer(tenantID, name, "+91 98765 43210", "", "", "Pune")
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db).Save(context.Background(), c))
	return c
}

// newPricedInvoice builds an invoice for qty units of p at 250 with GST and
// the given amount already paid
func newPricedInvoice(t *testing.T, tenantID, customerID uuid.UUID, number string, p *inventory.Product, qty int, paid decimal.Decimal) *trade.Invoice {
	t.Helper()

	inv, err := trade.NewInvoice(tenantID, number, customerID, uuid.New())
	require.NoError(t, err)
	require.NoError(t, inv.ApplyPricing([]trade.InvoiceLine{{
		ProductID:     p.ID,
		ProductName:   p.Name,
		Quantity:      qty,
		UnitPrice:     decimal.NewFromInt(250),
		DiscountType:  trade.DiscountTypeAmount,
		PurchasePrice: p.PurchasePrice,
	}}, decimal.Zero, trade.DiscountTypeAmount, true, "standard", trade.StandardTaxRates()))
	require.NoError(t, inv.InitializePayment(paid, "cash", uuid.New(), inv.CreatedAt))
	return inv
}
