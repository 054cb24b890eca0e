package review

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// RatingSummary is the recomputed rating aggregate for a product
type RatingSummary struct {
	Average decimal.Decimal
	Count   int
}

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	// FindByID finds a review by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// FindByProduct finds all reviews for a product
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Review, error)

	// FindByProductAndUser finds a user's review of a product, if any
	FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*Review, error)

	// Save creates or updates a review. Creating a second review for the
	// same (product, user) pair returns a DUPLICATE_REVIEW error.
	Save(ctx context.Context, review *Review) error

	// Delete deletes a review
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByProduct counts reviews for a product
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)

	// RatingSummaryForProduct recomputes the rating aggregate from all
	// stored reviews of a product
	RatingSummaryForProduct(ctx context.Context, productID uuid.UUID) (RatingSummary, error)
}
