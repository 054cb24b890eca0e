package order

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Stats(ctx context.Context, from, to time.Time) (order.OrderStats, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(order.OrderStats), args.Error(1)
}

var _ order.OrderRepository = (*MockOrderRepository)(nil)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindFeatured(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockProductRepository) RestoreStock(ctx context.Context, id uuid.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateRating(ctx context.Context, id uuid.UUID, average decimal.Decimal, count int) error {
	args := m.Called(ctx, id, average, count)
	return args.Error(0)
}

var _ catalog.ProductRepository = (*MockProductRepository)(nil)

func newService(orderRepo *MockOrderRepository, productRepo *MockProductRepository) *OrderService {
	engine, err := order.NewPricingEngine(order.DefaultPricingConfig())
	if err != nil {
		panic(err)
	}
	scope := NewNoOpTransactionScope(orderRepo, productRepo)
	return NewOrderService(orderRepo, productRepo, scope, engine)
}

func customerPrincipal(t *testing.T) identity.Principal {
	t.Helper()
	p, err := identity.NewPrincipal(uuid.New(), "buyer@example.com", "customer", true)
	require.NoError(t, err)
	return p
}

func adminPrincipal(t *testing.T) identity.Principal {
	t.Helper()
	p, err := identity.NewPrincipal(uuid.New(), "admin@example.com", "admin", true)
	require.NoError(t, err)
	return p
}

func activeProduct(t *testing.T, price float64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("WIDGET-01", "Widget", "gadgets", valueobject.NewMoneyUSDFromFloat(price), stock)
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func shippingInput() AddressInput {
	return AddressInput{
		Line1:      "123 Main St",
		City:       "Springfield",
		State:      "IL",
		PostalCode: "62704",
	}
}

func placedOrderFor(t *testing.T, userID uuid.UUID, productID uuid.UUID) *order.Order {
	t.Helper()
	addr, err := valueobject.NewAddress("123 Main St", "Springfield", "IL", "62704")
	require.NoError(t, err)
	o, err := order.NewOrder(userID, "buyer@example.com", addr, valueobject.Address{})
	require.NoError(t, err)
	require.NoError(t, o.AddItem(productID, "WIDGET-01", "Widget", valueobject.NewMoneyUSDFromFloat(200), 3))

	engine, err := order.NewPricingEngine(order.DefaultPricingConfig())
	require.NoError(t, err)
	breakdown, err := engine.Compute(o.Items)
	require.NoError(t, err)
	require.NoError(t, o.ApplyPricing(breakdown))
	require.NoError(t, o.Place())
	o.ClearDomainEvents()
	return o
}

func TestOrderServiceCreate(t *testing.T) {
	ctx := context.Background()
	principal := customerPrincipal(t)

	t.Run("places order with snapshot pricing", func(t *testing.T) {
		product := activeProduct(t, 200, 10)
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		productRepo.On("FindByIDs", ctx, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil)
		productRepo.On("DecrementStock", ctx, product.ID, 3).Return(nil)
		orderRepo.On("Save", ctx, mock.AnythingOfType("*order.Order")).Return(nil)

		service := newService(orderRepo, productRepo)
		resp, err := service.Create(ctx, principal, CreateOrderRequest{
			Items:           []CreateOrderItemInput{{ProductID: product.ID, Quantity: 3}},
			ShippingAddress: shippingInput(),
			PaymentMethod:   "credit_card",
		})

		require.NoError(t, err)
		assert.Equal(t, "600", resp.Subtotal.String())
		assert.Equal(t, "100", resp.ShippingCost.String())
		assert.Equal(t, "30", resp.TaxAmount.String())
		assert.Equal(t, "730", resp.TotalAmount.String())
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, "credit_card", resp.PaymentMethod)
		assert.Equal(t, principal.UserID, resp.UserID)
		assert.Equal(t, "buyer@example.com", resp.CustomerEmail)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "WIDGET-01", resp.Items[0].ProductSKU)
		productRepo.AssertExpectations(t)
		orderRepo.AssertExpectations(t)
	})

	t.Run("insufficient stock aborts before any decrement", func(t *testing.T) {
		product := activeProduct(t, 200, 2)
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		productRepo.On("FindByIDs", ctx, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil)

		service := newService(orderRepo, productRepo)
		_, err := service.Create(ctx, principal, CreateOrderRequest{
			Items:           []CreateOrderItemInput{{ProductID: product.ID, Quantity: 3}},
			ShippingAddress: shippingInput(),
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInsufficientStock, domainErr.Code)
		productRepo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
		orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("inactive product rejected", func(t *testing.T) {
		product := activeProduct(t, 200, 10)
		require.NoError(t, product.Deactivate())

		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		productRepo.On("FindByIDs", ctx, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil)

		service := newService(orderRepo, productRepo)
		_, err := service.Create(ctx, principal, CreateOrderRequest{
			Items:           []CreateOrderItemInput{{ProductID: product.ID, Quantity: 1}},
			ShippingAddress: shippingInput(),
		})
		assert.Error(t, err)
	})

	t.Run("unknown product not found", func(t *testing.T) {
		missing := uuid.New()
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		productRepo.On("FindByIDs", ctx, []uuid.UUID{missing}).Return([]catalog.Product{}, nil)

		service := newService(orderRepo, productRepo)
		_, err := service.Create(ctx, principal, CreateOrderRequest{
			Items:           []CreateOrderItemInput{{ProductID: missing, Quantity: 1}},
			ShippingAddress: shippingInput(),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeNotFound, domainErr.Code)
	})

	t.Run("decrement race surfaces repository error", func(t *testing.T) {
		product := activeProduct(t, 200, 10)
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		productRepo.On("FindByIDs", ctx, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil)
		productRepo.On("DecrementStock", ctx, product.ID, 3).
			Return(shared.NewDomainError(shared.CodeInsufficientStock, "insufficient stock"))

		service := newService(orderRepo, productRepo)
		_, err := service.Create(ctx, principal, CreateOrderRequest{
			Items:           []CreateOrderItemInput{{ProductID: product.ID, Quantity: 3}},
			ShippingAddress: shippingInput(),
		})

		require.Error(t, err)
		orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestOrderServiceCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("owner cancels and stock is restored", func(t *testing.T) {
		principal := customerPrincipal(t)
		productID := uuid.New()
		o := placedOrderFor(t, principal.UserID, productID)

		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		productRepo.On("RestoreStock", ctx, productID, 3).Return(nil)
		orderRepo.On("Save", ctx, o).Return(nil)

		service := newService(orderRepo, productRepo)
		resp, err := service.Cancel(ctx, principal, o.ID, "changed my mind")

		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
		assert.Equal(t, "refunded", resp.PaymentStatus)
		assert.Equal(t, "changed my mind", resp.CancelReason)
		productRepo.AssertExpectations(t)
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		o := placedOrderFor(t, uuid.New(), uuid.New())
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		service := newService(orderRepo, productRepo)
		_, err := service.Cancel(ctx, customerPrincipal(t), o.ID, "not mine")
		assert.ErrorIs(t, err, shared.ErrForbidden)
		productRepo.AssertNotCalled(t, "RestoreStock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("admin may cancel any order", func(t *testing.T) {
		productID := uuid.New()
		o := placedOrderFor(t, uuid.New(), productID)

		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		productRepo.On("RestoreStock", ctx, productID, 3).Return(nil)
		orderRepo.On("Save", ctx, o).Return(nil)

		service := newService(orderRepo, productRepo)
		_, err := service.Cancel(ctx, adminPrincipal(t), o.ID, "fraud check")
		assert.NoError(t, err)
	})

	t.Run("delivered order cannot be cancelled", func(t *testing.T) {
		principal := customerPrincipal(t)
		o := placedOrderFor(t, principal.UserID, uuid.New())
		require.NoError(t, o.UpdateStatus(order.OrderStatusProcessing))
		require.NoError(t, o.UpdateStatus(order.OrderStatusShipped))
		require.NoError(t, o.MarkDelivered())

		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		service := newService(orderRepo, productRepo)
		_, err := service.Cancel(ctx, principal, o.ID, "too late")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvalidTransition, domainErr.Code)
		productRepo.AssertNotCalled(t, "RestoreStock", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrderServiceUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("valid transition saves", func(t *testing.T) {
		o := placedOrderFor(t, uuid.New(), uuid.New())
		orderRepo := new(MockOrderRepository)
		orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		orderRepo.On("Save", ctx, o).Return(nil)

		service := newService(orderRepo, new(MockProductRepository))
		resp, err := service.UpdateStatus(ctx, o.ID, order.OrderStatusProcessing, "")
		require.NoError(t, err)
		assert.Equal(t, "processing", resp.Status)
	})

	t.Run("note is appended on transition", func(t *testing.T) {
		o := placedOrderFor(t, uuid.New(), uuid.New())
		orderRepo := new(MockOrderRepository)
		orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		orderRepo.On("Save", ctx, o).Return(nil)

		service := newService(orderRepo, new(MockProductRepository))
		resp, err := service.UpdateStatus(ctx, o.ID, order.OrderStatusProcessing, "picked by warehouse B")
		require.NoError(t, err)
		assert.Equal(t, "processing", resp.Status)
		assert.Equal(t, "picked by warehouse B", resp.Notes)
	})

	t.Run("invalid transition rejected", func(t *testing.T) {
		o := placedOrderFor(t, uuid.New(), uuid.New())
		orderRepo := new(MockOrderRepository)
		orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		service := newService(orderRepo, new(MockProductRepository))
		_, err := service.UpdateStatus(ctx, o.ID, order.OrderStatusDelivered, "")
		require.Error(t, err)
		orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestOrderServiceShippingAndDelivery(t *testing.T) {
	ctx := context.Background()

	o := placedOrderFor(t, uuid.New(), uuid.New())
	require.NoError(t, o.UpdateStatus(order.OrderStatusProcessing))
	o.ClearDomainEvents()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
	orderRepo.On("Save", ctx, o).Return(nil)

	service := newService(orderRepo, new(MockProductRepository))

	eta := time.Now().AddDate(0, 0, 5)
	resp, err := service.AddShippingInfo(ctx, o.ID, AddShippingInfoRequest{
		Carrier:           "UPS",
		TrackingNumber:    "1Z999AA10123456784",
		EstimatedDelivery: &eta,
	})
	require.NoError(t, err)
	assert.Equal(t, "processing", resp.Status, "shipping info does not transition the order")
	assert.Equal(t, "1Z999AA10123456784", resp.TrackingNumber)
	require.NotNil(t, resp.EstimatedDelivery)
	assert.True(t, resp.EstimatedDelivery.Equal(eta))

	resp, err = service.UpdateStatus(ctx, o.ID, order.OrderStatusShipped, "")
	require.NoError(t, err)
	assert.Equal(t, "shipped", resp.Status)
	assert.NotNil(t, resp.ShippedAt)

	resp, err = service.MarkDelivered(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "delivered", resp.Status)
	assert.Equal(t, "paid", resp.PaymentStatus)
}

func TestOrderServiceGetByID(t *testing.T) {
	ctx := context.Background()
	owner := customerPrincipal(t)
	o := placedOrderFor(t, owner.UserID, uuid.New())

	orderRepo := new(MockOrderRepository)
	orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
	service := newService(orderRepo, new(MockProductRepository))

	t.Run("owner sees own order", func(t *testing.T) {
		resp, err := service.GetByID(ctx, owner, o.ID)
		require.NoError(t, err)
		assert.Equal(t, o.OrderNumber, resp.OrderNumber)
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		_, err := service.GetByID(ctx, customerPrincipal(t), o.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("admin sees any order", func(t *testing.T) {
		_, err := service.GetByID(ctx, adminPrincipal(t), o.ID)
		assert.NoError(t, err)
	})
}

func TestOrderServiceListForUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	o := placedOrderFor(t, userID, uuid.New())

	orderRepo := new(MockOrderRepository)
	orderRepo.On("FindByUser", ctx, userID, mock.AnythingOfType("shared.Filter")).Return([]order.Order{*o}, nil)
	orderRepo.On("CountByUser", ctx, userID, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	service := newService(orderRepo, new(MockProductRepository))
	result, err := service.ListForUser(ctx, userID, OrderListFilter{})

	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, 1, result.TotalPages)
	assert.False(t, result.HasNext)
	assert.False(t, result.HasPrev)
}

func TestOrderServiceListForUserFilters(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "delivered" && f.Filters["payment_status"] == "paid"
	})

	orderRepo := new(MockOrderRepository)
	orderRepo.On("FindByUser", ctx, userID, matchFilter).Return([]order.Order{}, nil)
	orderRepo.On("CountByUser", ctx, userID, matchFilter).Return(int64(0), nil)

	service := newService(orderRepo, new(MockProductRepository))
	_, err := service.ListForUser(ctx, userID, OrderListFilter{Status: "delivered", PaymentStatus: "paid"})

	require.NoError(t, err)
	orderRepo.AssertExpectations(t)
}

func TestOrderServiceStats(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates for period", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("Stats", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return(order.OrderStats{
				TotalOrders:       4,
				TotalRevenue:      decimal.NewFromInt(2920),
				AverageOrderValue: decimal.NewFromInt(730),
				StatusCounts: map[order.OrderStatus]int64{
					order.OrderStatusPending:   3,
					order.OrderStatusDelivered: 1,
				},
			}, nil)

		service := newService(orderRepo, new(MockProductRepository))
		resp, err := service.Stats(ctx, StatsPeriodWeek)

		require.NoError(t, err)
		assert.Equal(t, int64(4), resp.TotalOrders)
		assert.Equal(t, int64(3), resp.PendingOrders)
		assert.Equal(t, int64(1), resp.CompletedOrders)
		assert.Equal(t, int64(3), resp.StatusCounts["pending"])
		assert.Equal(t, int64(1), resp.StatusCounts["delivered"])
		assert.WithinDuration(t, time.Now().AddDate(0, 0, -7), resp.From, time.Minute)
	})

	t.Run("unknown period rejected", func(t *testing.T) {
		service := newService(new(MockOrderRepository), new(MockProductRepository))
		_, err := service.Stats(ctx, "fortnight")
		assert.Error(t, err)
	})
}
