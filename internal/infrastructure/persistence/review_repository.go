package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/shared"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

// GormReviewRepository implements ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByID finds a review by its ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	var rev review.Review
	if err := r.db.WithContext(ctx).First(&rev, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// FindByProduct finds all reviews for a product
func (r *GormReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]review.Review, error) {
	var reviews []review.Review
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&review.Review{}).
			Where("product_id = ?", productID),
		filter,
	)

	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindByProductAndUser finds a user's review of a product, if any
func (r *GormReviewRepository) FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*review.Review, error) {
	var rev review.Review
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&rev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// Save creates or updates a review. The unique (product_id, user_id) index
// rejects a second review from the same user, which surfaces here as a
// DUPLICATE_REVIEW error.
func (r *GormReviewRepository) Save(ctx context.Context, rev *review.Review) error {
	if err := r.db.WithContext(ctx).Save(rev).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.NewDomainError(shared.CodeDuplicateReview, "You have already reviewed this product")
		}
		return err
	}
	return nil
}

// Delete deletes a review
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&review.Review{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByProduct counts reviews for a product
func (r *GormReviewRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// RatingSummaryForProduct recomputes the rating aggregate from all stored
// reviews of a product
func (r *GormReviewRepository) RatingSummaryForProduct(ctx context.Context, productID uuid.UUID) (review.RatingSummary, error) {
	type summaryResult struct {
		Count   int64
		Average decimal.Decimal
	}

	var result summaryResult
	if err := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Select("COUNT(*) as count, COALESCE(AVG(rating), 0) as average").
		Where("product_id = ?", productID).
		Scan(&result).Error; err != nil {
		return review.RatingSummary{}, err
	}

	return review.RatingSummary{
		Average: result.Average.Round(2),
		Count:   int(result.Count),
	}, nil
}

// applyFilter applies filter options to the query
func (r *GormReviewRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	// Apply ordering with whitelisted columns
	orderBy := ValidateSortField(filter.OrderBy, ReviewSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// isUniqueViolation reports whether err is a unique constraint violation,
// either as translated by GORM or as the raw PostgreSQL driver error.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// Ensure GormReviewRepository implements ReviewRepository
var _ review.ReviewRepository = (*GormReviewRepository)(nil)
