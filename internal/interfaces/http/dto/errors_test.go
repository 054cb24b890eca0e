package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/storefront/backend/internal/domain/shared"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{shared.CodeInvalidRequest, http.StatusBadRequest},
		{shared.CodeInvalidTransition, http.StatusBadRequest},
		{shared.CodeInsufficientStock, http.StatusBadRequest},
		{shared.CodeNotFound, http.StatusNotFound},
		{shared.CodeForbidden, http.StatusForbidden},
		{shared.CodeDuplicateReview, http.StatusConflict},
		{shared.CodeConflict, http.StatusConflict},
		{shared.CodeInternal, http.StatusInternalServerError},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	t.Run("computes pagination flags", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta([]string{"a"}, 45, 2, 20)

		assert.True(t, resp.Success)
		assert.Equal(t, int64(45), resp.Meta.Total)
		assert.Equal(t, 3, resp.Meta.TotalPages)
		assert.True(t, resp.Meta.HasNext)
		assert.True(t, resp.Meta.HasPrev)
	})

	t.Run("empty result still reports one page", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta([]string{}, 0, 1, 20)

		assert.Equal(t, 1, resp.Meta.TotalPages)
		assert.False(t, resp.Meta.HasNext)
		assert.False(t, resp.Meta.HasPrev)
	})

	t.Run("exact page boundary", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta([]string{}, 40, 2, 20)

		assert.Equal(t, 2, resp.Meta.TotalPages)
		assert.False(t, resp.Meta.HasNext)
		assert.True(t, resp.Meta.HasPrev)
	})
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(shared.CodeNotFound, "Order not found")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.Equal(t, shared.CodeNotFound, resp.Error.Code)
	assert.Equal(t, "Order not found", resp.Error.Message)
}
