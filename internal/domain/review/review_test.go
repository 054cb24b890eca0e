package review

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared"
)

func TestNewReview(t *testing.T) {
	productID := uuid.New()
	userID := uuid.New()

	t.Run("valid review", func(t *testing.T) {
		r, err := NewReview(productID, userID, 4, "pretty good")
		require.NoError(t, err)
		assert.Equal(t, 4, r.Rating)
		assert.Equal(t, "pretty good", r.Comment)
		assert.Len(t, r.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeReviewCreated, r.GetDomainEvents()[0].EventType())
	})

	t.Run("comment is trimmed", func(t *testing.T) {
		r, err := NewReview(productID, userID, 5, "  great  ")
		require.NoError(t, err)
		assert.Equal(t, "great", r.Comment)
	})

	t.Run("rating bounds", func(t *testing.T) {
		for _, rating := range []int{0, -1, 6, 100} {
			_, err := NewReview(productID, userID, rating, "")
			require.Error(t, err, "rating=%d", rating)

			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, shared.CodeInvalidRequest, domainErr.Code)
		}
		for rating := MinRating; rating <= MaxRating; rating++ {
			_, err := NewReview(productID, userID, rating, "")
			assert.NoError(t, err, "rating=%d", rating)
		}
	})

	t.Run("missing ids rejected", func(t *testing.T) {
		_, err := NewReview(uuid.Nil, userID, 3, "")
		assert.Error(t, err)

		_, err = NewReview(productID, uuid.Nil, 3, "")
		assert.Error(t, err)
	})

	t.Run("overlong comment rejected", func(t *testing.T) {
		_, err := NewReview(productID, userID, 3, strings.Repeat("a", maxCommentLength+1))
		assert.Error(t, err)
	})
}

func TestReviewUpdate(t *testing.T) {
	r, err := NewReview(uuid.New(), uuid.New(), 3, "ok")
	require.NoError(t, err)
	r.ClearDomainEvents()

	require.NoError(t, r.Update(5, "actually great"))
	assert.Equal(t, 5, r.Rating)
	assert.Equal(t, "actually great", r.Comment)

	events := r.GetDomainEvents()
	require.Len(t, events, 1)
	updated, ok := events[0].(*ReviewUpdatedEvent)
	require.True(t, ok)
	assert.Equal(t, 3, updated.OldRating)
	assert.Equal(t, 5, updated.NewRating)

	assert.Error(t, r.Update(0, ""))
	assert.Equal(t, 5, r.Rating, "failed update must not mutate")
}

func TestReviewIsAuthoredBy(t *testing.T) {
	author := uuid.New()
	r, err := NewReview(uuid.New(), author, 4, "")
	require.NoError(t, err)

	assert.True(t, r.IsAuthoredBy(author))
	assert.False(t, r.IsAuthoredBy(uuid.New()))
}
