package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// OrderStats is an aggregated view over orders in a time range
type OrderStats struct {
	TotalOrders       int64                 `json:"total_orders"`
	TotalRevenue      decimal.Decimal       `json:"total_revenue"`
	AverageOrderValue decimal.Decimal       `json:"average_order_value"`
	StatusCounts      map[OrderStatus]int64 `json:"status_counts"`
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order with its items by order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByUser finds orders placed by a user
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindAll finds all orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order together with its items. Updates are
	// version-checked; a stale aggregate returns the CONFLICT error.
	Save(ctx context.Context, order *Order) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByUser counts orders placed by a user
	CountByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error)

	// Stats aggregates order counts and revenue between from and to.
	// Cancelled orders count toward totals but not revenue.
	Stats(ctx context.Context, from, to time.Time) (OrderStats, error)
}
