package handler

import (
	"github.com/gin-gonic/gin"

	reviewapp "github.com/storefront/backend/internal/application/review"
)

// ReviewHandler handles review API endpoints
type ReviewHandler struct {
	BaseHandler
	reviewService *reviewapp.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *reviewapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// Create handles POST /products/:id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req reviewapp.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	created, err := h.reviewService.Create(c.Request.Context(), principal, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, created)
}

// Update handles PUT /reviews/:id. Only the author can edit a review.
func (h *ReviewHandler) Update(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	var req reviewapp.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	updated, err := h.reviewService.Update(c.Request.Context(), principal, reviewID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, updated)
}

// Delete handles DELETE /reviews/:id. The author or an administrator
// can delete a review.
func (h *ReviewHandler) Delete(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), principal, reviewID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Get handles GET /reviews/:id
func (h *ReviewHandler) Get(c *gin.Context) {
	reviewID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	result, err := h.reviewService.GetByID(c.Request.Context(), reviewID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListByProduct handles GET /products/:id/reviews
func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var filter reviewapp.ReviewListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.reviewService.ListByProduct(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// ProductRating handles GET /products/:id/rating
func (h *ReviewHandler) ProductRating(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	result, err := h.reviewService.ProductRating(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
