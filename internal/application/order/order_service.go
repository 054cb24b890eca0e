package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// StatsPeriod names a reporting window ending now
type StatsPeriod string

const (
	StatsPeriodDay   StatsPeriod = "day"
	StatsPeriodWeek  StatsPeriod = "week"
	StatsPeriodMonth StatsPeriod = "month"
	StatsPeriodYear  StatsPeriod = "year"
	StatsPeriodAll   StatsPeriod = "all"
)

// OrderService handles the order lifecycle: checkout, status transitions,
// cancellation with stock restoration, and reporting.
type OrderService struct {
	orderRepo      order.OrderRepository
	productRepo    catalog.ProductRepository
	txScope        TransactionScope
	pricing        *order.PricingEngine
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo order.OrderRepository,
	productRepo catalog.ProductRepository,
	txScope TransactionScope,
	pricing *order.PricingEngine,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		txScope:     txScope,
		pricing:     pricing,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create places a new order for the principal. Product snapshots, pricing,
// stock decrements and the order insert happen in a single transaction; any
// failure, including another checkout winning a race on the last units,
// rolls everything back.
func (s *OrderService) Create(ctx context.Context, principal identity.Principal, req CreateOrderRequest) (*OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidRequest, "order must contain at least one item")
	}

	shippingAddr, err := req.ShippingAddress.ToAddress()
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeInvalidRequest, err.Error())
	}
	billingAddr := shippingAddr
	if req.BillingAddress != nil {
		billingAddr, err = req.BillingAddress.ToAddress()
		if err != nil {
			return nil, shared.NewDomainError(shared.CodeInvalidRequest, err.Error())
		}
	}

	var placed *order.Order
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		productIDs := make([]uuid.UUID, len(req.Items))
		for i, item := range req.Items {
			productIDs[i] = item.ProductID
		}

		products, err := repos.ProductRepo().FindByIDs(ctx, productIDs)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*catalog.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		newOrder, err := order.NewOrder(principal.UserID, principal.Email, shippingAddr, billingAddr)
		if err != nil {
			return err
		}
		if req.Notes != "" {
			newOrder.SetNotes(req.Notes)
		}
		if req.PaymentMethod != "" {
			newOrder.SetPaymentMethod(req.PaymentMethod)
		}

		for _, item := range req.Items {
			product, ok := byID[item.ProductID]
			if !ok {
				return shared.NewDomainErrorf(shared.CodeNotFound, "product %s not found", item.ProductID)
			}
			if !product.IsActive() {
				return shared.NewDomainErrorf(shared.CodeInvalidRequest, "product %s is not available", product.SKU)
			}
			if !product.HasSufficientStock(item.Quantity) {
				return shared.NewDomainErrorf(shared.CodeInsufficientStock,
					"insufficient stock for %s: %d available, %d requested",
					product.SKU, product.Stock, item.Quantity)
			}
			if err := newOrder.AddItem(product.ID, product.SKU, product.Name, product.GetPriceMoney(), item.Quantity); err != nil {
				return err
			}
		}

		breakdown, err := s.pricing.Compute(newOrder.Items)
		if err != nil {
			return err
		}
		if err := newOrder.ApplyPricing(breakdown); err != nil {
			return err
		}
		if err := newOrder.Place(); err != nil {
			return err
		}

		// The guarded decrement is the authoritative availability check;
		// the pre-check above only produces a friendlier message.
		for _, item := range newOrder.Items {
			if err := repos.ProductRepo().DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := repos.OrderRepo().Save(ctx, newOrder); err != nil {
			return err
		}

		placed = newOrder
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, placed)

	response := ToOrderResponse(placed)
	return &response, nil
}

// Cancel cancels an order and returns its reserved stock. Customers may
// cancel only their own orders; admins may cancel any.
func (s *OrderService) Cancel(ctx context.Context, principal identity.Principal, orderID uuid.UUID, reason string) (*OrderResponse, error) {
	var cancelled *order.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !principal.CanAccessResource(o.UserID) {
			return shared.ErrForbidden
		}

		if err := o.Cancel(reason); err != nil {
			return err
		}

		for _, item := range o.Items {
			if err := repos.ProductRepo().RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}

		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, cancelled)

	response := ToOrderResponse(cancelled)
	return &response, nil
}

// UpdateStatus transitions an order through the fulfillment state machine,
// appending an optional administrative note. Admin only; cancellation goes
// through Cancel.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, target order.OrderStatus, note string) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(o *order.Order) error {
		if err := o.UpdateStatus(target); err != nil {
			return err
		}
		o.AppendNote(note)
		return nil
	})
}

// AddShippingInfo attaches carrier, tracking number and estimated delivery
// to an order without changing its status
func (s *OrderService) AddShippingInfo(ctx context.Context, orderID uuid.UUID, req AddShippingInfoRequest) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(o *order.Order) error {
		return o.AddShippingInfo(req.Carrier, req.TrackingNumber, req.EstimatedDelivery)
	})
}

// MarkDelivered completes an order, settling payment
func (s *OrderService) MarkDelivered(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, (*order.Order).MarkDelivered)
}

func (s *OrderService) mutate(ctx context.Context, orderID uuid.UUID, fn func(*order.Order) error) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := fn(o); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// GetByID retrieves an order visible to the principal
func (s *OrderService) GetByID(ctx context.Context, principal identity.Principal, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !principal.CanAccessResource(o.UserID) {
		return nil, shared.ErrForbidden
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// GetByOrderNumber retrieves an order by its number, visible to the principal
func (s *OrderService) GetByOrderNumber(ctx context.Context, principal identity.Principal, orderNumber string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if !principal.CanAccessResource(o.UserID) {
		return nil, shared.ErrForbidden
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// ListForUser retrieves the principal's own orders with pagination
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID, filter OrderListFilter) (*shared.Paginated[OrderListItemResponse], error) {
	repoFilter := toRepoFilter(filter)

	orders, err := s.orderRepo.FindByUser(ctx, userID, repoFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.CountByUser(ctx, userID, repoFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToOrderListItemResponses(orders), total, repoFilter.Page, repoFilter.PageSize)
	return &result, nil
}

// ListAll retrieves all orders with pagination. Admin only.
func (s *OrderService) ListAll(ctx context.Context, filter OrderListFilter) (*shared.Paginated[OrderListItemResponse], error) {
	repoFilter := toRepoFilter(filter)

	orders, err := s.orderRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToOrderListItemResponses(orders), total, repoFilter.Page, repoFilter.PageSize)
	return &result, nil
}

// Stats aggregates order counts and revenue for the given period. Admin only.
func (s *OrderService) Stats(ctx context.Context, period StatsPeriod) (*OrderStatsResponse, error) {
	from, to, err := periodRange(period, time.Now())
	if err != nil {
		return nil, err
	}

	stats, err := s.orderRepo.Stats(ctx, from, to)
	if err != nil {
		return nil, err
	}

	statusCounts := make(map[string]int64, len(stats.StatusCounts))
	for status, count := range stats.StatusCounts {
		statusCounts[string(status)] = count
	}

	return &OrderStatsResponse{
		Period:            string(period),
		From:              from,
		To:                to,
		TotalOrders:       stats.TotalOrders,
		TotalRevenue:      stats.TotalRevenue,
		AverageOrderValue: stats.AverageOrderValue,
		PendingOrders:     stats.StatusCounts[order.OrderStatusPending],
		CompletedOrders:   stats.StatusCounts[order.OrderStatusDelivered],
		StatusCounts:      statusCounts,
	}, nil
}

func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil || o == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, o.GetDomainEvents()...)
	o.ClearDomainEvents()
}

// periodRange resolves a named period to a [from, to) window ending at now
func periodRange(period StatsPeriod, now time.Time) (time.Time, time.Time, error) {
	switch period {
	case StatsPeriodDay:
		return now.AddDate(0, 0, -1), now, nil
	case StatsPeriodWeek:
		return now.AddDate(0, 0, -7), now, nil
	case StatsPeriodMonth:
		return now.AddDate(0, -1, 0), now, nil
	case StatsPeriodYear:
		return now.AddDate(-1, 0, 0), now, nil
	case StatsPeriodAll, "":
		return time.Time{}, now, nil
	default:
		return time.Time{}, time.Time{}, shared.NewDomainErrorf(shared.CodeInvalidRequest, "unknown stats period %q", period)
	}
}

func toRepoFilter(filter OrderListFilter) shared.Filter {
	repoFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		repoFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		repoFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		repoFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		repoFilter.OrderDir = filter.OrderDir
	}
	repoFilter.Search = filter.Search

	if filter.Status != "" {
		repoFilter.Filters["status"] = filter.Status
	}
	if filter.PaymentStatus != "" {
		repoFilter.Filters["payment_status"] = filter.PaymentStatus
	}
	if filter.StartDate != nil {
		repoFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		repoFilter.Filters["end_date"] = *filter.EndDate
	}

	return repoFilter
}
