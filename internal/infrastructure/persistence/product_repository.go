package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySKU finds a product by its SKU
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("sku = ?", strings.ToUpper(sku)).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}

	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindActive finds all active products
func (r *GormProductRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Product{}).
			Where("status = ?", catalog.ProductStatusActive),
		filter,
	)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindFeatured finds featured active products
func (r *GormProductRepository) FindFeatured(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Product{}).
			Where("is_featured = ? AND status = ?", true, catalog.ProductStatusActive),
		filter,
	)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates a product or applies a version-checked update. A stale
// in-memory version means another writer committed first and the caller
// must reload before retrying.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	db := r.db.WithContext(ctx)

	previous := product.Version
	product.IncrementVersion()

	result := db.Model(&catalog.Product{}).
		Where("id = ? AND version = ?", product.ID, previous).
		Select("*").Omit("id", "created_at").
		Updates(product)
	if result.Error != nil {
		product.Version = previous
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	product.Version = previous

	var count int64
	if err := db.Model(&catalog.Product{}).
		Where("id = ?", product.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrConflict
	}

	return db.Create(product).Error
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Product{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySKU checks if a product with the given SKU exists
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("sku = ?", strings.ToUpper(sku)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DecrementStock atomically decrements stock by quantity. The decrement and
// the availability check happen in a single guarded UPDATE so concurrent
// orders cannot oversell the product.
func (r *GormProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError(shared.CodeInvalidRequest, "Quantity must be positive")
	}

	result := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", quantity),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing product from one that ran out of stock
		var available int
		err := r.db.WithContext(ctx).
			Model(&catalog.Product{}).
			Select("stock").
			Where("id = ?", id).
			Take(&available).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		if err != nil {
			return err
		}
		return shared.NewDomainErrorf(shared.CodeInsufficientStock,
			"insufficient stock for product %s: %d available, %d requested", id, available, quantity)
	}
	return nil
}

// RestoreStock atomically adds quantity back to the stock level
func (r *GormProductRepository) RestoreStock(ctx context.Context, id uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError(shared.CodeInvalidRequest, "Quantity must be positive")
	}

	result := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", quantity),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdateRating writes the recomputed rating aggregate for a product
func (r *GormProductRepository) UpdateRating(ctx context.Context, id uuid.UUID, average decimal.Decimal, count int) error {
	result := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating_average": average,
			"rating_count":   count,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	// Apply ordering with whitelisted columns
	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProductRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "featured":
			query = query.Where("is_featured = ?", value)
		case "min_price":
			query = query.Where("price >= ?", value)
		case "max_price":
			query = query.Where("price <= ?", value)
		case "in_stock":
			if value == true {
				query = query.Where("stock > 0")
			} else {
				query = query.Where("stock = 0")
			}
		}
	}

	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
