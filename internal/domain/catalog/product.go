package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product represents a sellable item in the catalog.
// It is the aggregate root for catalog operations and also carries the
// denormalized rating aggregate maintained by the review workflow.
type Product struct {
	shared.BaseAggregateRoot
	SKU           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	Category      string          `gorm:"type:varchar(100);index"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Stock         int             `gorm:"not null;default:0"`
	Status        ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	IsFeatured    bool            `gorm:"not null;default:false"`
	RatingAverage decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0"`
	RatingCount   int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(sku, name, category string, price valueobject.Money, stock int) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidRequest, "product price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidRequest, "product stock cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(sku),
		Name:              name,
		Category:          category,
		Price:             price.Amount(),
		Stock:             stock,
		Status:            ProductStatusActive,
		RatingAverage:     decimal.Zero,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description, category string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.Category = category
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// ChangePrice updates the product's selling price
func (p *Product) ChangePrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidRequest, "product price cannot be negative")
	}

	oldPrice := p.Price
	p.Price = price.Amount()
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))

	return nil
}

// AdjustStock changes the stock level by delta (positive or negative).
// The resulting level must not go below zero.
func (p *Product) AdjustStock(delta int) error {
	newStock := p.Stock + delta
	if newStock < 0 {
		return shared.NewDomainError(shared.CodeInsufficientStock,
			"stock adjustment would make stock negative")
	}

	p.Stock = newStock
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductStockAdjustedEvent(p, delta))

	return nil
}

// HasSufficientStock returns true if at least quantity units are available
func (p *Product) HasSufficientStock(quantity int) bool {
	return quantity > 0 && p.Stock >= quantity
}

// SetRating replaces the denormalized rating aggregate. It is called by the
// review workflow after recomputing the summary from all reviews.
func (p *Product) SetRating(average decimal.Decimal, count int) error {
	if count < 0 {
		return shared.NewDomainError(shared.CodeInvalidRequest, "rating count cannot be negative")
	}
	if average.IsNegative() || average.GreaterThan(decimal.NewFromInt(5)) {
		return shared.NewDomainError(shared.CodeInvalidRequest, "rating average must be between 0 and 5")
	}

	p.RatingAverage = average.Round(2)
	p.RatingCount = count
	p.UpdatedAt = time.Now()

	return nil
}

// SetFeatured marks or unmarks the product as featured
func (p *Product) SetFeatured(featured bool) {
	p.IsFeatured = featured
	p.UpdatedAt = time.Now()
}

// Activate activates the product
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError(shared.CodeInvalidRequest, "product is already active")
	}

	oldStatus := p.Status
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusActive))

	return nil
}

// Deactivate removes the product from sale without deleting it
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError(shared.CodeInvalidRequest, "product is already inactive")
	}

	oldStatus := p.Status
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusInactive))

	return nil
}

// IsActive returns true if the product is available for sale
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// GetPriceMoney returns the price as a Money value object
func (p *Product) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Price)
}

// validateSKU validates the product SKU
func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError(shared.CodeInvalidRequest, "product sku cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError(shared.CodeInvalidRequest, "product sku cannot exceed 50 characters")
	}
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError(shared.CodeInvalidRequest, "product sku can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError(shared.CodeInvalidRequest, "product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError(shared.CodeInvalidRequest, "product name cannot exceed 200 characters")
	}
	return nil
}
