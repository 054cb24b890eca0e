package dto

import (
	"net/http"

	"github.com/storefront/backend/internal/domain/shared"
)

// Error codes raised at the HTTP boundary, outside the domain taxonomy
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeRateLimited is used when the per-client rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMITED"
)

// errorCodeHTTPStatus maps domain and boundary error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	shared.CodeInvalidRequest:    http.StatusBadRequest,
	shared.CodeInvalidTransition: http.StatusBadRequest,
	shared.CodeInsufficientStock: http.StatusBadRequest,
	shared.CodeNotFound:          http.StatusNotFound,
	shared.CodeForbidden:         http.StatusForbidden,
	shared.CodeDuplicateReview:   http.StatusConflict,
	shared.CodeConflict:          http.StatusConflict,
	shared.CodeInternal:          http.StatusInternalServerError,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
