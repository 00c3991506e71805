package trade

import (
	"strings"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountType selects how a discount value is interpreted
type DiscountType string

const (
	DiscountTypeAmount     DiscountType = "amount"
	DiscountTypePercentage DiscountType = "percentage"
)

var hundred = decimal.NewFromInt(100)

// ParseDiscountType normalizes a discount type; empty means amount
func ParseDiscountType(s string) (DiscountType, error) {
	switch DiscountType(strings.ToLower(strings.TrimSpace(s))) {
	case "", DiscountTypeAmount:
		return DiscountTypeAmount, nil
	case DiscountTypePercentage:
		return DiscountTypePercentage, nil
	}
	return "", shared.NewDomainErrorf(shared.CodeInvalidInput, "Invalid discount type: %s", s)
}

// IsValid returns true for known discount types
func (d DiscountType) IsValid() bool {
	return d == DiscountTypeAmount || d == DiscountTypePercentage
}

// resolve turns a discount value into an absolute amount against base
func (d DiscountType) resolve(value, base decimal.Decimal) decimal.Decimal {
	if d == DiscountTypePercentage {
		return base.Mul(value).Div(hundred)
	}
	return value
}

// PricingItem is one line handed to the calculator
type PricingItem struct {
	ProductID    uuid.UUID
	Quantity     int
	UnitPrice    decimal.Decimal
	Discount     decimal.Decimal
	DiscountType DiscountType
}

// LinePricing holds the derived values of one line, unrounded
type LinePricing struct {
	GrossAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxableValue   decimal.Decimal
	CGSTAmount     decimal.Decimal
	SGSTAmount     decimal.Decimal
	LineTotal      decimal.Decimal
}

// PricingResult is the full breakdown of an invoice. Values keep full
// precision; rounding to paise happens when they are stored on the invoice.
type PricingResult struct {
	Lines              []LinePricing
	GrossAmount        decimal.Decimal
	ItemDiscountTotal  decimal.Decimal
	AdditionalDiscount decimal.Decimal
	TaxableAmount      decimal.Decimal
	TotalCGST          decimal.Decimal
	TotalSGST          decimal.Decimal
	TotalGST           decimal.Decimal
	// Subtotal is the unrounded payable amount (taxable plus GST when applied)
	Subtotal   decimal.Decimal
	GrandTotal decimal.Decimal
	RoundOff   decimal.Decimal
}

// Price computes line and invoice totals. It performs no validation and has
// no side effects; run ValidatePricingInput first.
func Price(items []PricingItem, discount decimal.Decimal, discountType DiscountType, applyGST bool, rates TaxRates) PricingResult {
	res := PricingResult{
		Lines:             make([]LinePricing, len(items)),
		GrossAmount:       decimal.Zero,
		ItemDiscountTotal: decimal.Zero,
	}

	for i, item := range items {
		gross := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		itemDiscount := item.DiscountType.resolve(item.Discount, gross)
		taxable := gross.Sub(itemDiscount)

		cgst, sgst := decimal.Zero, decimal.Zero
		if applyGST {
			cgst = rates.CGSTOn(taxable)
			sgst = rates.SGSTOn(taxable)
		}

		res.Lines[i] = LinePricing{
			GrossAmount:    gross,
			DiscountAmount: itemDiscount,
			TaxableValue:   taxable,
			CGSTAmount:     cgst,
			SGSTAmount:     sgst,
			LineTotal:      taxable.Add(cgst).Add(sgst),
		}
		res.GrossAmount = res.GrossAmount.Add(gross)
		res.ItemDiscountTotal = res.ItemDiscountTotal.Add(itemDiscount)
	}

	afterLineDiscount := res.GrossAmount.Sub(res.ItemDiscountTotal)
	res.AdditionalDiscount = discountType.resolve(discount, afterLineDiscount)
	res.TaxableAmount = afterLineDiscount.Sub(res.AdditionalDiscount)

	res.TotalCGST, res.TotalSGST = decimal.Zero, decimal.Zero
	if applyGST {
		res.TotalCGST = rates.CGSTOn(res.TaxableAmount)
		res.TotalSGST = rates.SGSTOn(res.TaxableAmount)
	}
	res.TotalGST = res.TotalCGST.Add(res.TotalSGST)

	res.Subtotal = res.TaxableAmount
	if applyGST {
		res.Subtotal = res.TaxableAmount.Add(res.TotalGST)
	}
	res.GrandTotal = roundHalfUp(res.Subtotal)
	res.RoundOff = res.GrandTotal.Sub(res.Subtotal)

	return res
}

// roundHalfUp rounds to a whole rupee, halves going up
func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Add(decimal.New(5, -1)).Floor()
}

// ValidatePricingInput rejects input the calculator must never see
func ValidatePricingInput(items []PricingItem, discount decimal.Decimal, discountType DiscountType) error {
	if len(items) == 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Invoice must have at least one item")
	}

	afterLineDiscount := decimal.Zero
	for i, item := range items {
		if item.ProductID == uuid.Nil {
			return shared.NewDomainErrorf(shared.CodeInvalidInput, "Item %d: product is required", i+1)
		}
		if item.Quantity <= 0 {
			return shared.NewDomainErrorf(shared.CodeInvalidInput, "Item %d: quantity must be positive", i+1)
		}
		if item.UnitPrice.IsNegative() {
			return shared.NewDomainErrorf(shared.CodeInvalidInput, "Item %d: price cannot be negative", i+1)
		}
		gross := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		if err := validateDiscount(item.Discount, item.DiscountType, gross); err != nil {
			return shared.NewDomainErrorf(shared.CodeInvalidInput, "Item %d: %s", i+1, err.Error())
		}
		afterLineDiscount = afterLineDiscount.Add(gross.Sub(item.DiscountType.resolve(item.Discount, gross)))
	}

	return validateDiscount(discount, discountType, afterLineDiscount)
}

func validateDiscount(value decimal.Decimal, discountType DiscountType, base decimal.Decimal) error {
	if !discountType.IsValid() {
		return shared.NewDomainErrorf(shared.CodeInvalidInput, "Invalid discount type: %s", discountType)
	}
	if value.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Discount cannot be negative")
	}
	switch discountType {
	case DiscountTypePercentage:
		if value.GreaterThan(hundred) {
			return shared.NewDomainError(shared.CodeInvalidInput, "Discount percentage cannot exceed 100")
		}
	case DiscountTypeAmount:
		if value.GreaterThan(base) {
			return shared.NewDomainErrorf(shared.CodeInvalidInput, "Discount %s exceeds amount %s", value.StringFixed(2), base.StringFixed(2))
		}
	}
	return nil
}
