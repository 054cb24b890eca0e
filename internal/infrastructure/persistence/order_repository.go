package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its items by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByOrderNumber finds an order with its items by order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByUser finds orders placed by a user
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&order.Order{}).
			Preload("Items").
			Where("user_id = ?", userID),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindAll finds all orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&order.Order{}).Preload("Items"),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates an order or applies a version-checked update together with
// its items. Concurrent status mutations lose the version race and surface
// as a conflict instead of silently overwriting each other.
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	previous := o.Version

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o.Version = previous + 1

		result := tx.Model(&order.Order{}).
			Where("id = ? AND version = ?", o.ID, previous).
			Select("*").Omit("id", "created_at", "Items").
			Updates(o)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&order.Order{}).
				Where("id = ?", o.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return shared.ErrConflict
			}

			// New order: Create inserts the items through the association
			o.Version = previous
			return tx.Create(o).Error
		}

		// Handle items: delete removed items and save/update existing ones
		currentItemIDs := make([]uuid.UUID, len(o.Items))
		for i, item := range o.Items {
			currentItemIDs[i] = item.ID
		}

		// Delete items not in the current list
		if len(currentItemIDs) > 0 {
			if err := tx.Where("order_id = ? AND id NOT IN ?", o.ID, currentItemIDs).
				Delete(&order.OrderItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("order_id = ?", o.ID).
				Delete(&order.OrderItem{}).Error; err != nil {
				return err
			}
		}

		// Save/update remaining items
		for i := range o.Items {
			o.Items[i].OrderID = o.ID
			if err := tx.Save(&o.Items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		o.Version = previous
	}
	return err
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&order.Order{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByUser counts orders placed by a user
func (r *GormOrderRepository) CountByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&order.Order{}).Where("user_id = ?", userID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Stats aggregates order counts and revenue between from and to.
// Cancelled orders count toward totals but not revenue.
func (r *GormOrderRepository) Stats(ctx context.Context, from, to time.Time) (order.OrderStats, error) {
	stats := order.OrderStats{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		StatusCounts:      make(map[order.OrderStatus]int64),
	}

	ranged := func(q *gorm.DB) *gorm.DB {
		if !from.IsZero() {
			q = q.Where("created_at >= ?", from)
		}
		if !to.IsZero() {
			q = q.Where("created_at < ?", to)
		}
		return q
	}

	// Per-status counts
	type statusCount struct {
		Status order.OrderStatus
		Count  int64
	}
	var statusCounts []statusCount
	if err := ranged(r.db.WithContext(ctx).Model(&order.Order{})).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return order.OrderStats{}, err
	}
	for _, sc := range statusCounts {
		stats.StatusCounts[sc.Status] = sc.Count
		stats.TotalOrders += sc.Count
	}

	// Revenue over non-cancelled orders
	type revenueResult struct {
		Orders  int64
		Revenue decimal.Decimal
	}
	var rev revenueResult
	if err := ranged(r.db.WithContext(ctx).Model(&order.Order{})).
		Select("COUNT(*) as orders, COALESCE(SUM(total_amount), 0) as revenue").
		Where("status <> ?", order.OrderStatusCancelled).
		Scan(&rev).Error; err != nil {
		return order.OrderStats{}, err
	}
	stats.TotalRevenue = rev.Revenue
	if rev.Orders > 0 {
		stats.AverageOrderValue = rev.Revenue.Div(decimal.NewFromInt(rev.Orders)).Round(2)
	}

	return stats, nil
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	// Apply ordering with whitelisted columns
	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR customer_email ILIKE ?", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "user_id":
			query = query.Where("user_id = ?", value)
		case "start_date":
			query = query.Where("created_at >= ?", value)
		case "end_date":
			query = query.Where("created_at < ?", value)
		}
	}

	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ order.OrderRepository = (*GormOrderRepository)(nil)
