package review

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/review"
	"github.com/storefront/backend/internal/domain/shared"
)

// ReviewService handles review submission and keeps the product's
// denormalized rating columns in sync. Every review mutation triggers a
// fresh recompute from the stored reviews, so the aggregate never drifts.
type ReviewService struct {
	reviewRepo     review.ReviewRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviewRepo review.ReviewRepository, productRepo catalog.ProductRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ReviewService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create submits a review for a product. A second review for the same
// product by the same user is rejected.
func (s *ReviewService) Create(ctx context.Context, principal identity.Principal, productID uuid.UUID, req CreateReviewRequest) (*ReviewResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	r, err := review.NewReview(product.ID, principal.UserID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	// The unique (product, user) index is the authoritative duplicate
	// guard; the repository maps its violation to DUPLICATE_REVIEW.
	if err := s.reviewRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	if err := s.refreshProductRating(ctx, product.ID); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, r.GetDomainEvents()...)
	r.ClearDomainEvents()

	response := ToReviewResponse(r)
	return &response, nil
}

// Update edits a review. Only the author may edit; admins delete instead.
func (s *ReviewService) Update(ctx context.Context, principal identity.Principal, reviewID uuid.UUID, req UpdateReviewRequest) (*ReviewResponse, error) {
	r, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !r.IsAuthoredBy(principal.UserID) {
		return nil, shared.ErrForbidden
	}

	if err := r.Update(req.Rating, req.Comment); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	if err := s.refreshProductRating(ctx, r.ProductID); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, r.GetDomainEvents()...)
	r.ClearDomainEvents()

	response := ToReviewResponse(r)
	return &response, nil
}

// Delete removes a review. Only the author or an admin may delete.
func (s *ReviewService) Delete(ctx context.Context, principal identity.Principal, reviewID uuid.UUID) error {
	r, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if !principal.CanAccessResource(r.UserID) {
		return shared.ErrForbidden
	}

	if err := s.reviewRepo.Delete(ctx, r.ID); err != nil {
		return err
	}

	if err := s.refreshProductRating(ctx, r.ProductID); err != nil {
		return err
	}

	s.publishEvents(ctx, review.NewReviewDeletedEvent(r))

	return nil
}

// GetByID retrieves a single review
func (s *ReviewService) GetByID(ctx context.Context, reviewID uuid.UUID) (*ReviewResponse, error) {
	r, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	response := ToReviewResponse(r)
	return &response, nil
}

// ListByProduct retrieves reviews of a product with pagination
func (s *ReviewService) ListByProduct(ctx context.Context, productID uuid.UUID, filter ReviewListFilter) (*shared.Paginated[ReviewResponse], error) {
	repoFilter := toRepoFilter(filter)

	reviews, err := s.reviewRepo.FindByProduct(ctx, productID, repoFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.reviewRepo.CountByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToReviewResponses(reviews), total, repoFilter.Page, repoFilter.PageSize)
	return &result, nil
}

// ProductRating returns the denormalized rating aggregate for a product
func (s *ReviewService) ProductRating(ctx context.Context, productID uuid.UUID) (*ProductRatingResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ProductRatingResponse{
		ProductID:     product.ID,
		RatingAverage: product.RatingAverage,
		RatingCount:   product.RatingCount,
	}, nil
}

// refreshProductRating recomputes the rating summary from all stored reviews
// and writes it onto the product row.
func (s *ReviewService) refreshProductRating(ctx context.Context, productID uuid.UUID) error {
	summary, err := s.reviewRepo.RatingSummaryForProduct(ctx, productID)
	if err != nil {
		return err
	}
	return s.productRepo.UpdateRating(ctx, productID, summary.Average, summary.Count)
}

func (s *ReviewService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

func toRepoFilter(filter ReviewListFilter) shared.Filter {
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
	if filter.Rating != nil {
		repoFilter.Filters["rating"] = *filter.Rating
	}
	return repoFilter
}
