package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct("WIDGET-01", "Widget", "gadgets", valueobject.NewMoneyUSDFromFloat(200), 10)
	require.NoError(t, err)
	return p
}

func TestNewProduct(t *testing.T) {
	t.Run("valid product", func(t *testing.T) {
		p := newTestProduct(t)
		assert.Equal(t, "WIDGET-01", p.SKU)
		assert.Equal(t, ProductStatusActive, p.Status)
		assert.Equal(t, 10, p.Stock)
		assert.True(t, p.RatingAverage.IsZero())
		assert.Equal(t, 0, p.RatingCount)
		assert.Len(t, p.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeProductCreated, p.GetDomainEvents()[0].EventType())
	})

	t.Run("sku is uppercased", func(t *testing.T) {
		p, err := NewProduct("widget-02", "Widget", "", valueobject.ZeroUSD(), 0)
		require.NoError(t, err)
		assert.Equal(t, "WIDGET-02", p.SKU)
	})

	t.Run("empty sku rejected", func(t *testing.T) {
		_, err := NewProduct("", "Widget", "", valueobject.ZeroUSD(), 0)
		assert.Error(t, err)
	})

	t.Run("invalid sku characters rejected", func(t *testing.T) {
		_, err := NewProduct("WIDGET 01!", "Widget", "", valueobject.ZeroUSD(), 0)
		assert.Error(t, err)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := NewProduct("WIDGET-01", "", "", valueobject.ZeroUSD(), 0)
		assert.Error(t, err)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		_, err := NewProduct("WIDGET-01", "Widget", "", valueobject.NewMoneyUSDFromFloat(-1), 0)
		assert.Error(t, err)
	})

	t.Run("negative stock rejected", func(t *testing.T) {
		_, err := NewProduct("WIDGET-01", "Widget", "", valueobject.ZeroUSD(), -1)
		assert.Error(t, err)
	})
}

func TestProductUpdate(t *testing.T) {
	p := newTestProduct(t)
	p.ClearDomainEvents()

	require.NoError(t, p.Update("Better Widget", "now with more widget", "tools"))
	assert.Equal(t, "Better Widget", p.Name)
	assert.Equal(t, "tools", p.Category)
	assert.Len(t, p.GetDomainEvents(), 1)

	assert.Error(t, p.Update("", "", ""))
}

func TestProductChangePrice(t *testing.T) {
	p := newTestProduct(t)
	p.ClearDomainEvents()

	require.NoError(t, p.ChangePrice(valueobject.NewMoneyUSDFromFloat(250)))
	assert.True(t, p.Price.Equal(decimal.NewFromInt(250)))

	events := p.GetDomainEvents()
	require.Len(t, events, 1)
	priceEvent, ok := events[0].(*ProductPriceChangedEvent)
	require.True(t, ok)
	assert.True(t, priceEvent.OldPrice.Equal(decimal.NewFromInt(200)))
	assert.True(t, priceEvent.NewPrice.Equal(decimal.NewFromInt(250)))

	assert.Error(t, p.ChangePrice(valueobject.NewMoneyUSDFromFloat(-5)))
}

func TestProductAdjustStock(t *testing.T) {
	t.Run("increase and decrease", func(t *testing.T) {
		p := newTestProduct(t)
		require.NoError(t, p.AdjustStock(5))
		assert.Equal(t, 15, p.Stock)
		require.NoError(t, p.AdjustStock(-15))
		assert.Equal(t, 0, p.Stock)
	})

	t.Run("cannot go negative", func(t *testing.T) {
		p := newTestProduct(t)
		err := p.AdjustStock(-11)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInsufficientStock, domainErr.Code)
		assert.Equal(t, 10, p.Stock)
	})
}

func TestProductHasSufficientStock(t *testing.T) {
	p := newTestProduct(t)
	assert.True(t, p.HasSufficientStock(10))
	assert.False(t, p.HasSufficientStock(11))
	assert.False(t, p.HasSufficientStock(0))
	assert.False(t, p.HasSufficientStock(-1))
}

func TestProductSetRating(t *testing.T) {
	p := newTestProduct(t)

	require.NoError(t, p.SetRating(decimal.NewFromFloat(4.333), 3))
	assert.Equal(t, "4.33", p.RatingAverage.StringFixed(2))
	assert.Equal(t, 3, p.RatingCount)

	assert.Error(t, p.SetRating(decimal.NewFromFloat(5.1), 1))
	assert.Error(t, p.SetRating(decimal.NewFromFloat(-0.1), 1))
	assert.Error(t, p.SetRating(decimal.NewFromInt(4), -1))
}

func TestProductStatusTransitions(t *testing.T) {
	p := newTestProduct(t)

	assert.Error(t, p.Activate(), "already active")

	require.NoError(t, p.Deactivate())
	assert.False(t, p.IsActive())
	assert.Error(t, p.Deactivate(), "already inactive")

	require.NoError(t, p.Activate())
	assert.True(t, p.IsActive())
}
