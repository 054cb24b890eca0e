package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// ProductHandler handles catalog API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// Create handles POST /products (admin)
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// Update handles PUT /products/:id (admin)
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete handles DELETE /products/:id (admin)
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AdjustStock handles POST /products/:id/stock (admin)
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req catalogapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	product, err := h.productService.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Activate handles POST /products/:id/activate (admin)
func (h *ProductHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.productService.Activate)
}

// Deactivate handles POST /products/:id/deactivate (admin)
func (h *ProductHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.productService.Deactivate)
}

func (h *ProductHandler) changeStatus(c *gin.Context, transition func(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := transition(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Get handles GET /products/:id. Inactive products are only visible to
// administrators.
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	includeInactive := false
	if principal, ok := getPrincipal(c); ok {
		includeInactive = principal.IsAdmin()
	}

	product, err := h.productService.GetByID(c.Request.Context(), id, includeInactive)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List handles GET /products. Non-admin callers only see active products.
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	filter.ActiveOnly = true
	if principal, ok := getPrincipal(c); ok && principal.IsAdmin() {
		filter.ActiveOnly = false
	}

	result, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// ListFeatured handles GET /products/featured
func (h *ProductHandler) ListFeatured(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	featured := true
	filter.Featured = &featured
	filter.ActiveOnly = true

	result, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}
