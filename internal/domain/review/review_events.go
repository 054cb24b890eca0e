package review

import (
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeReview = "Review"

// Event type constants
const (
	EventTypeReviewCreated = "ReviewCreated"
	EventTypeReviewUpdated = "ReviewUpdated"
	EventTypeReviewDeleted = "ReviewDeleted"
)

// ReviewCreatedEvent is published when a new review is submitted
type ReviewCreatedEvent struct {
	shared.BaseDomainEvent
	ReviewID  uuid.UUID `json:"review_id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
}

// NewReviewCreatedEvent creates a new ReviewCreatedEvent
func NewReviewCreatedEvent(r *Review) *ReviewCreatedEvent {
	return &ReviewCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReviewCreated, AggregateTypeReview, r.ID),
		ReviewID:        r.ID,
		ProductID:       r.ProductID,
		UserID:          r.UserID,
		Rating:          r.Rating,
	}
}

// ReviewUpdatedEvent is published when a review's rating or comment changes
type ReviewUpdatedEvent struct {
	shared.BaseDomainEvent
	ReviewID  uuid.UUID `json:"review_id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	OldRating int       `json:"old_rating"`
	NewRating int       `json:"new_rating"`
}

// NewReviewUpdatedEvent creates a new ReviewUpdatedEvent
func NewReviewUpdatedEvent(r *Review, oldRating int) *ReviewUpdatedEvent {
	return &ReviewUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReviewUpdated, AggregateTypeReview, r.ID),
		ReviewID:        r.ID,
		ProductID:       r.ProductID,
		UserID:          r.UserID,
		OldRating:       oldRating,
		NewRating:       r.Rating,
	}
}

// ReviewDeletedEvent is published when a review is removed
type ReviewDeletedEvent struct {
	shared.BaseDomainEvent
	ReviewID  uuid.UUID `json:"review_id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
}

// NewReviewDeletedEvent creates a new ReviewDeletedEvent
func NewReviewDeletedEvent(r *Review) *ReviewDeletedEvent {
	return &ReviewDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReviewDeleted, AggregateTypeReview, r.ID),
		ReviewID:        r.ID,
		ProductID:       r.ProductID,
		UserID:          r.UserID,
	}
}
