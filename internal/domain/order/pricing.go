package order

import (
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// PricingBreakdown is the result of pricing an order
type PricingBreakdown struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	Total        decimal.Decimal `json:"total"`
}

// PricingConfig holds the tunable pricing parameters
type PricingConfig struct {
	// FreeShippingThreshold is the subtotal above which shipping is free
	FreeShippingThreshold decimal.Decimal
	// FlatShippingRate is charged when the subtotal does not qualify for
	// free shipping
	FlatShippingRate decimal.Decimal
	// TaxRate is applied to the subtotal only, never to shipping
	TaxRate decimal.Decimal
}

// DefaultPricingConfig returns the standard pricing parameters
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		FreeShippingThreshold: decimal.NewFromInt(1000),
		FlatShippingRate:      decimal.NewFromInt(100),
		TaxRate:               decimal.NewFromFloat(0.05),
	}
}

// Validate checks the pricing parameters for sanity
func (c PricingConfig) Validate() error {
	if c.FreeShippingThreshold.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidRequest, "free shipping threshold cannot be negative")
	}
	if c.FlatShippingRate.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidRequest, "flat shipping rate cannot be negative")
	}
	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return shared.NewDomainError(shared.CodeInvalidRequest, "tax rate must be in [0, 1)")
	}
	return nil
}

// PricingEngine computes order totals from line items. It is a pure
// calculator over exact decimals; all rounding happens exactly once, on
// the tax amount.
type PricingEngine struct {
	config PricingConfig
}

// NewPricingEngine creates a pricing engine with the given parameters
func NewPricingEngine(config PricingConfig) (*PricingEngine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &PricingEngine{config: config}, nil
}

// Compute prices the given line items. Subtotal is the sum of line
// subtotals, shipping is free strictly above the threshold, and tax is
// the subtotal times the tax rate rounded half-up to cents.
func (e *PricingEngine) Compute(items []OrderItem) (PricingBreakdown, error) {
	if len(items) == 0 {
		return PricingBreakdown{}, shared.NewDomainError(shared.CodeInvalidRequest, "cannot price an empty order")
	}

	subtotal := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			return PricingBreakdown{}, shared.NewDomainError(shared.CodeInvalidRequest, "item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return PricingBreakdown{}, shared.NewDomainError(shared.CodeInvalidRequest, "item unit price cannot be negative")
		}
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	shipping := e.config.FlatShippingRate
	if subtotal.GreaterThan(e.config.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(e.config.TaxRate).Round(2)

	return PricingBreakdown{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		TaxAmount:    tax,
		Total:        subtotal.Add(shipping).Add(tax),
	}, nil
}
