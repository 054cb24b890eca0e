package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	SKU         string          `json:"sku" binding:"required,min=1,max=50"`
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description"`
	Category    string          `json:"category" binding:"max=100"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock" binding:"min=0"`
	IsFeatured  bool            `json:"is_featured"`
}

// UpdateProductRequest represents a request to update a product.
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	Price       *decimal.Decimal `json:"price"`
	IsFeatured  *bool            `json:"is_featured"`
}

// AdjustStockRequest represents a manual stock adjustment
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// ProductListFilter represents filter options for product listing
type ProductListFilter struct {
	Search     string           `form:"search"`
	Category   string           `form:"category"`
	Status     string           `form:"status" binding:"omitempty,oneof=active inactive"`
	Featured   *bool            `form:"featured"`
	MinPrice   *decimal.Decimal `form:"min_price"`
	MaxPrice   *decimal.Decimal `form:"max_price"`
	InStock    *bool            `form:"in_stock"`
	Page       int              `form:"page" binding:"omitempty,min=1"`
	PageSize   int              `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string           `form:"order_by" binding:"omitempty,oneof=name price created_at rating_average"`
	OrderDir   string           `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	ActiveOnly bool             `form:"-"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	Status        string          `json:"status"`
	IsFeatured    bool            `json:"is_featured"`
	RatingAverage decimal.Decimal `json:"rating_average"`
	RatingCount   int             `json:"rating_count"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ToProductResponse converts a product aggregate to its response DTO
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Price:         p.Price,
		Stock:         p.Stock,
		Status:        string(p.Status),
		IsFeatured:    p.IsFeatured,
		RatingAverage: p.RatingAverage,
		RatingCount:   p.RatingCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.GetVersion(),
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
