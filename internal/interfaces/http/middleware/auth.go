package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// Auth context keys
const (
	PrincipalKey  = "principal"
	JWTClaimsKey  = "jwt_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// AuthConfig holds configuration for the authentication middleware
type AuthConfig struct {
	JWTService *auth.JWTService
	Logger     *zap.Logger
}

// Auth creates JWT authentication middleware. Validated claims become an
// identity.Principal attached to the request context; inactive accounts
// are rejected outright.
func Auth(jwtService *auth.JWTService) gin.HandlerFunc {
	return AuthWithConfig(AuthConfig{JWTService: jwtService})
}

// AuthWithConfig creates JWT authentication middleware with custom config
func AuthWithConfig(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractBearerToken(c)
		if !ok {
			abortUnauthorized(c, cfg.Logger, "Missing or malformed authorization header")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			message := "Authentication required"
			if err == auth.ErrExpiredToken {
				message = "Token has expired"
			}
			abortUnauthorized(c, cfg.Logger, message)
			return
		}

		principal, err := claims.Principal()
		if err != nil {
			abortUnauthorized(c, cfg.Logger, "Invalid token claims")
			return
		}

		if !principal.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(shared.CodeForbidden, "Account is deactivated", GetRequestID(c)))
			return
		}

		c.Set(PrincipalKey, principal)
		c.Set(JWTClaimsKey, claims)

		// Propagate the user to the request-scoped logger
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithUserID(ctx, log, principal.UserID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// OptionalAuth extracts a principal when a valid token is present but lets
// unauthenticated requests through. Used on public catalog routes where a
// logged-in caller gets no extra rights but may be logged.
func OptionalAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractBearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		if principal, err := claims.Principal(); err == nil && principal.IsActive {
			c.Set(PrincipalKey, principal)
			c.Set(JWTClaimsKey, claims)
		}

		c.Next()
	}
}

// RequireAdmin rejects requests whose principal is not an administrator.
// Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			abortUnauthorized(c, nil, "Authentication required")
			return
		}
		if !principal.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(shared.CodeForbidden, "Administrator access required", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

// GetPrincipal retrieves the authenticated principal from the gin context
func GetPrincipal(c *gin.Context) (identity.Principal, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return identity.Principal{}, false
	}
	principal, ok := value.(identity.Principal)
	return principal, ok
}

// extractBearerToken pulls the bearer token out of the Authorization header
func extractBearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader(AuthHeaderKey)
	if authHeader == "" || !strings.HasPrefix(authHeader, BearerPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, BearerPrefix)
	return token, token != ""
}

// abortUnauthorized rejects the request with a 401 envelope
func abortUnauthorized(c *gin.Context, log *zap.Logger, message string) {
	if log != nil {
		log.Warn("authentication failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("reason", message),
		)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}
