package trade

import (
	"strings"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultTaxCategory is used when an invoice names no category
const DefaultTaxCategory = "standard"

// TaxRates are the intra-state GST halves, in percent
type TaxRates struct {
	CGST decimal.Decimal
	SGST decimal.Decimal
}

// StandardTaxRates is 9% + 9%
func StandardTaxRates() TaxRates {
	return TaxRates{CGST: decimal.NewFromInt(9), SGST: decimal.NewFromInt(9)}
}

// CGSTOn returns the central tax on an amount
func (r TaxRates) CGSTOn(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(r.CGST).Div(hundred)
}

// SGSTOn returns the state tax on an amount
func (r TaxRates) SGSTOn(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(r.SGST).Div(hundred)
}

// Combined returns CGST + SGST
func (r TaxRates) Combined() decimal.Decimal {
	return r.CGST.Add(r.SGST)
}

// TaxTable maps a tax category to its rates
type TaxTable struct {
	rates           map[string]TaxRates
	defaultCategory string
}

// NewTaxTable builds a table; the default category must be present
func NewTaxTable(rates map[string]TaxRates, defaultCategory string) (*TaxTable, error) {
	if defaultCategory == "" {
		defaultCategory = DefaultTaxCategory
	}
	normalized := make(map[string]TaxRates, len(rates))
	for k, r := range rates {
		if r.CGST.IsNegative() || r.SGST.IsNegative() {
			return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "Tax rates for %s cannot be negative", k)
		}
		normalized[strings.ToLower(k)] = r
	}
	defaultCategory = strings.ToLower(defaultCategory)
	if _, ok := normalized[defaultCategory]; !ok {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "Default tax category %s has no rates", defaultCategory)
	}
	return &TaxTable{rates: normalized, defaultCategory: defaultCategory}, nil
}

// NewStandardTaxTable returns a table with only the standard category
func NewStandardTaxTable() *TaxTable {
	return &TaxTable{
		rates:           map[string]TaxRates{DefaultTaxCategory: StandardTaxRates()},
		defaultCategory: DefaultTaxCategory,
	}
}

// Lookup returns the rates for a category. Empty means the default category.
func (t *TaxTable) Lookup(category string) (TaxRates, string, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = t.defaultCategory
	}
	r, ok := t.rates[category]
	if !ok {
		return TaxRates{}, "", shared.NewDomainErrorf(shared.CodeInvalidInput, "Unknown tax category: %s", category)
	}
	return r, category, nil
}

// DefaultCategory returns the category used when none is given
func (t *TaxTable) DefaultCategory() string {
	return t.defaultCategory
}
