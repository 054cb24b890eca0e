package review

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/review"
)

// CreateReviewRequest represents a request to review a product
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// UpdateReviewRequest represents a request to edit a review
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// ReviewListFilter represents filter options for review listing
type ReviewListFilter struct {
	Rating   *int   `form:"rating" binding:"omitempty,min=1,max=5"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at rating"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductRatingResponse reports the denormalized rating aggregate
type ProductRatingResponse struct {
	ProductID     uuid.UUID       `json:"product_id"`
	RatingAverage decimal.Decimal `json:"rating_average"`
	RatingCount   int             `json:"rating_count"`
}

// ToReviewResponse converts a review aggregate to its response DTO
func ToReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ToReviewResponses converts a slice of reviews
func ToReviewResponses(reviews []review.Review) []ReviewResponse {
	responses := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		responses[i] = ToReviewResponse(&reviews[i])
	}
	return responses
}
