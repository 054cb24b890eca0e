package order

import (
	"context"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
)

// TransactionScope provides transactional access to the repositories the
// checkout workflow touches. All repository operations performed inside an
// Execute call share one database transaction and commit or roll back
// atomically, so an order row never exists without its stock decrement.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the order and catalog
// repositories scoped to the current transaction.
type TransactionalRepositories interface {
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() order.OrderRepository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful in tests where the repositories are mocks.
type NoOpTransactionScope struct {
	orderRepo   order.OrderRepository
	productRepo catalog.ProductRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(orderRepo order.OrderRepository, productRepo catalog.ProductRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// Execute runs the function without transactional guarantees
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() order.OrderRepository {
	return s.orderRepo
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}
