package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/storefront/backend/internal/domain/shared"
)

type validationTestPayload struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Rating int    `json:"rating" binding:"required,gte=1,lte=5"`
}

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var payload validationTestPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.String(http.StatusOK, "ok")
	})

	t.Run("reports field names from json tags", func(t *testing.T) {
		body := `{"name": "", "email": "not-an-email", "rating": 9}`
		req := httptest.NewRequest("POST", "/test", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"name"`)
		assert.Contains(t, w.Body.String(), `"email"`)
		assert.Contains(t, w.Body.String(), `"rating"`)
		assert.Contains(t, w.Body.String(), string(shared.CodeInvalidRequest))
	})

	t.Run("valid payload passes", func(t *testing.T) {
		body := `{"name": "Widget", "email": "buyer@example.com", "rating": 4}`
		req := httptest.NewRequest("POST", "/test", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestFormatValidationErrors(t *testing.T) {
	SetupValidator()

	t.Run("non-validator error produces response without details", func(t *testing.T) {
		resp := FormatValidationErrors(assert.AnError, "req-1")

		assert.False(t, resp.Success)
		assert.NotNil(t, resp.Error)
		assert.Equal(t, "req-1", resp.Error.RequestID)
		assert.Empty(t, resp.Error.Details)
	})
}

func TestGetValidationMessage(t *testing.T) {
	SetupValidator()

	router := gin.New()
	router.POST("/msg", func(c *gin.Context) {
		var payload validationTestPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	body := `{"email": "buyer@example.com", "rating": 0}`
	req := httptest.NewRequest("POST", "/msg", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required")
}
