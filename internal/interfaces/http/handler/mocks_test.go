package handler

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// injectPrincipal returns a middleware that places the principal in the
// context the way the auth middleware would.
func injectPrincipal(principal identity.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.PrincipalKey, principal)
		c.Next()
	}
}

func newCustomerPrincipal(t *testing.T) identity.Principal {
	t.Helper()
	principal, err := identity.NewPrincipal(uuid.New(), "customer@example.com", "CUSTOMER", true)
	require.NoError(t, err)
	return principal
}

func newAdminPrincipal(t *testing.T) identity.Principal {
	t.Helper()
	principal, err := identity.NewPrincipal(uuid.New(), "admin@example.com", "ADMIN", true)
	require.NoError(t, err)
	return principal
}

func newTestProduct(t *testing.T, sku string, price float64, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(sku, "Product "+sku, "widgets", valueobject.NewMoneyUSDFromFloat(price), stock)
	require.NoError(t, err)
	return product
}

func newTestAddress(t *testing.T) valueobject.Address {
	t.Helper()
	addr, err := valueobject.NewAddress("1 Main St", "Springfield", "IL", "62701")
	require.NoError(t, err)
	return addr
}

func newTestOrder(t *testing.T, userID uuid.UUID) *order.Order {
	t.Helper()
	addr := newTestAddress(t)
	o, err := order.NewOrder(userID, "customer@example.com", addr, addr)
	require.NoError(t, err)
	require.NoError(t, o.AddItem(uuid.New(), "SKU-1", "Product SKU-1", valueobject.NewMoneyUSDFromFloat(200), 3))
	engine, err := order.NewPricingEngine(order.DefaultPricingConfig())
	require.NoError(t, err)
	breakdown, err := engine.Compute(o.Items)
	require.NoError(t, err)
	require.NoError(t, o.ApplyPricing(breakdown))
	return o
}

func newTestReview(t *testing.T, productID, userID uuid.UUID, rating int) *review.Review {
	t.Helper()
	r, err := review.NewReview(productID, userID, rating, "solid product")
	require.NoError(t, err)
	return r
}

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

// MockOrderRepository is a mock implementation of order.OrderRepository
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

// MockReviewRepository is a mock implementation of review.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]review.Review, error) {
	args := m.Called(ctx, productID, filter)
	return args.Get(0).([]review.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*review.Review, error) {
	args := m.Called(ctx, productID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviewRepository) Save(ctx context.Context, r *review.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) RatingSummaryForProduct(ctx context.Context, productID uuid.UUID) (review.RatingSummary, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(review.RatingSummary), args.Error(1)
}

var _ review.ReviewRepository = (*MockReviewRepository)(nil)
