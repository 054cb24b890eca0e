package review

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

const (
	// MinRating is the lowest allowed star rating
	MinRating = 1
	// MaxRating is the highest allowed star rating
	MaxRating = 5

	maxCommentLength = 2000
)

// Review represents a customer's review of a product.
// A customer may review a given product at most once; the uniqueness of
// (product, user) is enforced by the persistence layer.
type Review struct {
	shared.BaseAggregateRoot
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_product_user,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_product_user,priority:2"`
	Rating    int       `gorm:"not null"`
	Comment   string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "reviews"
}

// NewReview creates a new review
func NewReview(productID, userID uuid.UUID, rating int, comment string) (*Review, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidRequest, "review product id is required")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidRequest, "review user id is required")
	}
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	comment = strings.TrimSpace(comment)
	if err := validateComment(comment); err != nil {
		return nil, err
	}

	review := &Review{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		UserID:            userID,
		Rating:            rating,
		Comment:           comment,
	}

	review.AddDomainEvent(NewReviewCreatedEvent(review))

	return review, nil
}

// Update changes the rating and comment of the review
func (r *Review) Update(rating int, comment string) error {
	if err := validateRating(rating); err != nil {
		return err
	}
	comment = strings.TrimSpace(comment)
	if err := validateComment(comment); err != nil {
		return err
	}

	oldRating := r.Rating
	r.Rating = rating
	r.Comment = comment
	r.UpdatedAt = time.Now()

	r.AddDomainEvent(NewReviewUpdatedEvent(r, oldRating))

	return nil
}

// IsAuthoredBy returns true if the review was written by the given user
func (r *Review) IsAuthoredBy(userID uuid.UUID) bool {
	return r.UserID == userID
}

func validateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return shared.NewDomainErrorf(shared.CodeInvalidRequest,
			"rating must be between %d and %d", MinRating, MaxRating)
	}
	return nil
}

func validateComment(comment string) error {
	if len(comment) > maxCommentLength {
		return shared.NewDomainErrorf(shared.CodeInvalidRequest,
			"comment cannot exceed %d characters", maxCommentLength)
	}
	return nil
}
