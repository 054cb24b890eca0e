package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by its SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindActive finds all active products
	FindActive(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindFeatured finds featured active products
	FindFeatured(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product. Updates are version-checked; a
	// stale aggregate returns the CONFLICT error and must be reloaded.
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsBySKU checks if a product with the given SKU exists
	ExistsBySKU(ctx context.Context, sku string) (bool, error)

	// DecrementStock atomically decrements stock by quantity, failing when
	// fewer than quantity units remain. The decrement and the availability
	// check happen in a single statement so concurrent orders cannot
	// oversell the product.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error

	// RestoreStock atomically adds quantity back to the stock level
	RestoreStock(ctx context.Context, id uuid.UUID, quantity int) error

	// UpdateRating writes the recomputed rating aggregate for a product
	UpdateRating(ctx context.Context, id uuid.UUID, average decimal.Decimal, count int) error
}
