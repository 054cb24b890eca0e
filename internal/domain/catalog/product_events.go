package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated       = "ProductCreated"
	EventTypeProductUpdated       = "ProductUpdated"
	EventTypeProductStatusChanged = "ProductStatusChanged"
	EventTypeProductPriceChanged  = "ProductPriceChanged"
	EventTypeProductStockAdjusted = "ProductStockAdjusted"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		SKU:             product.SKU,
		Name:            product.Name,
		Category:        product.Category,
		Price:           product.Price,
		Stock:           product.Stock,
	}
}

// ProductUpdatedEvent is published when a product is updated
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID `json:"product_id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		SKU:             product.SKU,
		Name:            product.Name,
		Description:     product.Description,
		Category:        product.Category,
	}
}

// ProductStatusChangedEvent is published when a product's status changes
type ProductStatusChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID     `json:"product_id"`
	SKU       string        `json:"sku"`
	OldStatus ProductStatus `json:"old_status"`
	NewStatus ProductStatus `json:"new_status"`
}

// NewProductStatusChangedEvent creates a new ProductStatusChangedEvent
func NewProductStatusChangedEvent(product *Product, oldStatus, newStatus ProductStatus) *ProductStatusChangedEvent {
	return &ProductStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStatusChanged, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		SKU:             product.SKU,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// ProductPriceChangedEvent is published when a product's price changes
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
}

// NewProductPriceChangedEvent creates a new ProductPriceChangedEvent
func NewProductPriceChangedEvent(product *Product, oldPrice decimal.Decimal) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		SKU:             product.SKU,
		OldPrice:        oldPrice,
		NewPrice:        product.Price,
	}
}

// ProductStockAdjustedEvent is published when stock is manually adjusted
type ProductStockAdjustedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
	Delta     int       `json:"delta"`
	NewStock  int       `json:"new_stock"`
}

// NewProductStockAdjustedEvent creates a new ProductStockAdjustedEvent
func NewProductStockAdjustedEvent(product *Product, delta int) *ProductStockAdjustedEvent {
	return &ProductStockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStockAdjusted, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		SKU:             product.SKU,
		Delta:           delta,
		NewStock:        product.Stock,
	}
}
