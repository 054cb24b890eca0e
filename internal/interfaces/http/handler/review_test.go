package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	reviewapp "github.com/storefront/backend/internal/application/review"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/shared"
)

func setupReviewRouter(reviewRepo *MockReviewRepository, productRepo *MockProductRepository, principal *identity.Principal) *gin.Engine {
	svc := reviewapp.NewReviewService(reviewRepo, productRepo)
	h := NewReviewHandler(svc)

	router := gin.New()
	if principal != nil {
		router.Use(injectPrincipal(*principal))
	}
	router.POST("/products/:id/reviews", h.Create)
	router.GET("/products/:id/reviews", h.ListByProduct)
	router.GET("/products/:id/rating", h.ProductRating)
	router.GET("/reviews/:id", h.Get)
	router.PUT("/reviews/:id", h.Update)
	router.DELETE("/reviews/:id", h.Delete)
	return router
}

func TestReviewHandler_Create(t *testing.T) {
	customer := newCustomerPrincipal(t)

	t.Run("creates review and refreshes product rating", func(t *testing.T) {
		product := newTestProduct(t, "SKU-1", 10, 5)

		reviewRepo := new(MockReviewRepository)
		productRepo := new(MockProductRepository)
		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		reviewRepo.On("Save", mock.Anything, mock.AnythingOfType("*review.Review")).Return(nil)
		reviewRepo.On("RatingSummaryForProduct", mock.Anything, product.ID).
			Return(review.RatingSummary{Average: decimal.NewFromInt(4), Count: 1}, nil)
		productRepo.On("UpdateRating", mock.Anything, product.ID, decimal.NewFromInt(4), 1).Return(nil)

		router := setupReviewRouter(reviewRepo, productRepo, &customer)
		w := performJSON(t, router, "POST", "/products/"+product.ID.String()+"/reviews", gin.H{
			"rating":  4,
			"comment": "does what it says",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, float64(4), data["rating"])
		productRepo.AssertExpectations(t)
		reviewRepo.AssertExpectations(t)
	})

	t.Run("duplicate review returns 409", func(t *testing.T) {
		product := newTestProduct(t, "SKU-1", 10, 5)

		reviewRepo := new(MockReviewRepository)
		productRepo := new(MockProductRepository)
		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		reviewRepo.On("Save", mock.Anything, mock.AnythingOfType("*review.Review")).
			Return(shared.NewDomainError(shared.CodeDuplicateReview, "user has already reviewed this product"))

		router := setupReviewRouter(reviewRepo, productRepo, &customer)
		w := performJSON(t, router, "POST", "/products/"+product.ID.String()+"/reviews", gin.H{"rating": 5})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), shared.CodeDuplicateReview)
	})

	t.Run("rating outside 1..5 rejected", func(t *testing.T) {
		reviewRepo := new(MockReviewRepository)
		productRepo := new(MockProductRepository)

		router := setupReviewRouter(reviewRepo, productRepo, &customer)
		w := performJSON(t, router, "POST", "/products/"+uuid.NewString()+"/reviews", gin.H{"rating": 6})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		reviewRepo.AssertNotCalled(t, "Save")
	})

	t.Run("unknown product returns 404", func(t *testing.T) {
		id := uuid.New()
		reviewRepo := new(MockReviewRepository)
		productRepo := new(MockProductRepository)
		productRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		router := setupReviewRouter(reviewRepo, productRepo, &customer)
		w := performJSON(t, router, "POST", "/products/"+id.String()+"/reviews", gin.H{"rating": 3})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestReviewHandler_Update(t *testing.T) {
	t.Run("author edits own review", func(t *testing.T) {
		customer := newCustomerPrincipal(t)
		r := newTestReview(t, uuid.New(), customer.UserID, 3)

		reviewRepo := new(MockReviewRepository)
		productRepo := new(MockProductRepository)
		reviewRepo.On("FindByID", mock.Anything, r.ID).Return(r, nil)
		reviewRepo.On("Save", mock.Anything, r).Return(nil)
		reviewRepo.On("RatingSummaryForProduct", mock.Anything, r.ProductID).
			Return(review.RatingSummary{Average: decimal.NewFromInt(5), Count: 1}, nil)
		productRepo.On("UpdateRating", mock.Anything, r.ProductID, decimal.NewFromInt(5), 1).Return(nil)

		router := setupReviewRouter(reviewRepo, productRepo, &customer)
		w := performJSON(t, router, "PUT", "/reviews/"+r.ID.String(), gin.H{"rating": 5, "comment": "even better now"})

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, float64(5), data["rating"])
	})

	t.Run("another customer cannot edit", func(t *testing.T) {
		customer := newCustomerPrincipal(t)
		r := newTestReview(t, uuid.New(), uuid.New(), 3)

		reviewRepo := new(MockReviewRepository)
		productRepo := new(MockProductRepository)
		reviewRepo.On("FindByID", mock.Anything, r.ID).Return(r, nil)

		router := setupReviewRouter(reviewRepo, productRepo, &customer)
		w := performJSON(t, router, "PUT", "/reviews/"+r.ID.String(), gin.H{"rating": 1})

		assert.Equal(t, http.StatusForbidden, w.Code)
		reviewRepo.AssertNotCalled(t, "Save")
	})
}

func TestReviewHandler_Delete(t *testing.T) {
	t.Run("admin deletes any review and rating resets", func(t *testing.T) {
		admin := newAdminPrincipal(t)
		r := newTestReview(t, uuid.New(), uuid.New(), 2)

		reviewRepo := new(MockReviewRepository)
		productRepo := new(MockProductRepository)
		reviewRepo.On("FindByID", mock.Anything, r.ID).Return(r, nil)
		reviewRepo.On("Delete", mock.Anything, r.ID).Return(nil)
		reviewRepo.On("RatingSummaryForProduct", mock.Anything, r.ProductID).
			Return(review.RatingSummary{Average: decimal.Zero, Count: 0}, nil)
		productRepo.On("UpdateRating", mock.Anything, r.ProductID, decimal.Zero, 0).Return(nil)

		router := setupReviewRouter(reviewRepo, productRepo, &admin)
		w := performJSON(t, router, "DELETE", "/reviews/"+r.ID.String(), nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		productRepo.AssertExpectations(t)
	})

	t.Run("author deletes own review", func(t *testing.T) {
		customer := newCustomerPrincipal(t)
		r := newTestReview(t, uuid.New(), customer.UserID, 2)

		reviewRepo := new(MockReviewRepository)
		productRepo := new(MockProductRepository)
		reviewRepo.On("FindByID", mock.Anything, r.ID).Return(r, nil)
		reviewRepo.On("Delete", mock.Anything, r.ID).Return(nil)
		reviewRepo.On("RatingSummaryForProduct", mock.Anything, r.ProductID).
			Return(review.RatingSummary{Average: decimal.Zero, Count: 0}, nil)
		productRepo.On("UpdateRating", mock.Anything, r.ProductID, decimal.Zero, 0).Return(nil)

		router := setupReviewRouter(reviewRepo, productRepo, &customer)
		w := performJSON(t, router, "DELETE", "/reviews/"+r.ID.String(), nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestReviewHandler_ListByProduct(t *testing.T) {
	productID := uuid.New()
	reviews := []review.Review{*newTestReview(t, productID, uuid.New(), 4), *newTestReview(t, productID, uuid.New(), 5)}

	reviewRepo := new(MockReviewRepository)
	productRepo := new(MockProductRepository)
	reviewRepo.On("FindByProduct", mock.Anything, productID, mock.AnythingOfType("shared.Filter")).Return(reviews, nil)
	reviewRepo.On("CountByProduct", mock.Anything, productID).Return(int64(2), nil)

	router := setupReviewRouter(reviewRepo, productRepo, nil)
	w := performJSON(t, router, "GET", "/products/"+productID.String()+"/reviews", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	payload := decodeResponse(t, w)
	meta := payload["meta"].(map[string]any)
	assert.Equal(t, float64(2), meta["total"])
	assert.Len(t, payload["data"], 2)
}

func TestReviewHandler_ProductRating(t *testing.T) {
	product := newTestProduct(t, "SKU-1", 10, 5)

	reviewRepo := new(MockReviewRepository)
	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := setupReviewRouter(reviewRepo, productRepo, nil)
	w := performJSON(t, router, "GET", "/products/"+product.ID.String()+"/rating", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(0), data["rating_count"])
}
