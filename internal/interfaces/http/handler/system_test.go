package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSystemHandler_Health(t *testing.T) {
	h := NewSystemHandler()
	router := gin.New()
	router.GET("/health", h.Health)

	w := performJSON(t, router, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]any)
	assert.Equal(t, "ok", data["status"])
	assert.NotEmpty(t, data["go_version"])
}

func TestSystemHandler_Ready(t *testing.T) {
	t.Run("ready when all checks pass", func(t *testing.T) {
		h := NewSystemHandler()
		h.RegisterCheck("database", func() error { return nil })
		h.RegisterCheck("cache", func() error { return nil })

		router := gin.New()
		router.GET("/ready", h.Ready)

		w := performJSON(t, router, "GET", "/ready", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]any)
		checks := data["checks"].(map[string]any)
		assert.Equal(t, "ok", checks["database"])
		assert.Equal(t, "ok", checks["cache"])
	})

	t.Run("unavailable when a check fails", func(t *testing.T) {
		h := NewSystemHandler()
		h.RegisterCheck("database", func() error { return errors.New("connection refused") })

		router := gin.New()
		router.GET("/ready", h.Ready)

		w := performJSON(t, router, "GET", "/ready", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "connection refused")
	})

	t.Run("ready with no checks registered", func(t *testing.T) {
		h := NewSystemHandler()
		router := gin.New()
		router.GET("/ready", h.Ready)

		w := performJSON(t, router, "GET", "/ready", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
