package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ProductService handles catalog business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainErrorf(shared.CodeConflict, "product with sku %s already exists", req.SKU)
	}

	price, err := valueobject.NewMoney(req.Price, valueobject.DefaultCurrency)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeInvalidRequest, err.Error())
	}

	product, err := catalog.NewProduct(req.SKU, req.Name, req.Category, price, req.Stock)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	if req.IsFeatured {
		product.SetFeatured(true)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Update applies partial updates to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := product.Description
	if req.Description != nil {
		description = *req.Description
	}
	category := product.Category
	if req.Category != nil {
		category = *req.Category
	}
	if err := product.Update(name, description, category); err != nil {
		return nil, err
	}

	if req.Price != nil {
		price, err := valueobject.NewMoney(*req.Price, valueobject.DefaultCurrency)
		if err != nil {
			return nil, shared.NewDomainError(shared.CodeInvalidRequest, err.Error())
		}
		if err := product.ChangePrice(price); err != nil {
			return nil, err
		}
	}
	if req.IsFeatured != nil {
		product.SetFeatured(*req.IsFeatured)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// AdjustStock applies a manual stock adjustment
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.AdjustStock(delta); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Activate puts a product back on sale
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, id, (*catalog.Product).Activate)
}

// Deactivate removes a product from sale without deleting it
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, id, (*catalog.Product).Deactivate)
}

func (s *ProductService) changeStatus(ctx context.Context, id uuid.UUID, transition func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := transition(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product. Inactive products are only visible when
// includeInactive is set (admin callers).
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID, includeInactive bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() && !includeInactive {
		return nil, shared.ErrNotFound
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	repoFilter := toRepoFilter(filter)

	products, err := s.productRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToProductResponses(products), total, repoFilter.Page, repoFilter.PageSize)
	return &result, nil
}

// Delete removes a product from the catalog
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	// Event delivery is best effort; the state change already committed.
	_ = s.eventPublisher.Publish(ctx, product.GetDomainEvents()...)
	product.ClearDomainEvents()
}

func toRepoFilter(filter ProductListFilter) shared.Filter {
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

	if filter.Category != "" {
		repoFilter.Filters["category"] = filter.Category
	}
	if filter.Status != "" {
		repoFilter.Filters["status"] = filter.Status
	} else if filter.ActiveOnly {
		repoFilter.Filters["status"] = string(catalog.ProductStatusActive)
	}
	if filter.Featured != nil {
		repoFilter.Filters["featured"] = *filter.Featured
	}
	if filter.MinPrice != nil {
		repoFilter.Filters["min_price"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		repoFilter.Filters["max_price"] = *filter.MaxPrice
	}
	if filter.InStock != nil {
		repoFilter.Filters["in_stock"] = *filter.InStock
	}

	return repoFilter
}
