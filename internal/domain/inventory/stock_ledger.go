package inventory

import (
	"sort"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// StockChange is the before/after snapshot of a single delta
type StockChange struct {
	ProductID     uuid.UUID
	Delta         int
	PreviousStock int
	NewStock      int
}

// ApplyDelta moves the product's stock by delta and returns the history row
// describing the change. It does not refuse a negative result; callers check
// sufficiency before taking stock.
func ApplyDelta(
	p *Product,
	delta int,
	historyType HistoryType,
	reason string,
	actor uuid.UUID,
	ref Reference,
) (*InventoryHistory, StockChange, error) {
	if p == nil {
		return nil, StockChange{}, shared.NewDomainError(shared.CodeInvalidInput, "Product cannot be nil")
	}

	previous := p.Stock
	next := previous + delta

	entry, err := NewInventoryHistory(p.TenantID, p.ID, historyType, delta, previous, next)
	if err != nil {
		return nil, StockChange{}, err
	}
	entry.WithReason(reason).WithActor(actor).WithReference(ref)

	p.Stock = next
	p.Touch()
	p.IncrementVersion()

	return entry, StockChange{
		ProductID:     p.ID,
		Delta:         delta,
		PreviousStock: previous,
		NewStock:      next,
	}, nil
}

// Demand is the total quantity requested of one product across an invoice
type Demand struct {
	ProductID uuid.UUID
	Quantity  int
}

// AggregateDemand sums quantities per product so that several lines of the
// same product are checked together. The result is sorted by product ID,
// which is also the lock order.
func AggregateDemand(lines []Demand) []Demand {
	totals := make(map[uuid.UUID]int, len(lines))
	for _, l := range lines {
		totals[l.ProductID] += l.Quantity
	}
	out := make([]Demand, 0, len(totals))
	for id, q := range totals {
		out = append(out, Demand{ProductID: id, Quantity: q})
	}
	SortDemand(out)
	return out
}

// SortDemand orders demands by product ID
func SortDemand(d []Demand) {
	sort.Slice(d, func(i, j int) bool {
		return d[i].ProductID.String() < d[j].ProductID.String()
	})
}

// CheckSufficiency returns an INSUFFICIENT_STOCK error naming the first product
// whose stock cannot cover its aggregated demand.
func CheckSufficiency(products map[uuid.UUID]*Product, demand []Demand) error {
	for _, d := range demand {
		p, ok := products[d.ProductID]
		if !ok {
			return shared.NewDomainErrorf(shared.CodeNotFound, "Product %s not found", d.ProductID)
		}
		if !p.HasStock(d.Quantity) {
			return shared.NewDomainErrorf(shared.CodeInsufficientStock,
				"Insufficient stock for %s. Available: %d, requested: %d", p.Name, p.Stock, d.Quantity)
		}
	}
	return nil
}

// Reconciliation compares a product's stock with the sum of its history
type Reconciliation struct {
	ProductID    uuid.UUID
	CurrentStock int
	LedgerStock  int
	Entries      int
	Drift        int
}

// InSync reports whether the ledger explains the current stock
func (r Reconciliation) InSync() bool {
	return r.Drift == 0
}

// Reconcile replays history deltas from zero. Opening stock is itself an
// adjustment row, so a complete ledger sums to the current stock.
func Reconcile(p *Product, history []InventoryHistory) Reconciliation {
	ledger := 0
	for _, h := range history {
		ledger += h.Quantity
	}
	return Reconciliation{
		ProductID:    p.ID,
		CurrentStock: p.Stock,
		LedgerStock:  ledger,
		Entries:      len(history),
		Drift:        p.Stock - ledger,
	}
}
