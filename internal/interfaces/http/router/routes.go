package router

import (
	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/interfaces/http/handler"
)

// Handlers bundles the API handlers the route tree is built from
type Handlers struct {
	Products *handler.ProductHandler
	Orders   *handler.OrderHandler
	Reviews  *handler.ReviewHandler
}

// Middleware bundles the auth middleware applied to protected routes
type Middleware struct {
	// Auth rejects requests without a valid access token
	Auth gin.HandlerFunc
	// OptionalAuth attaches the principal when a valid token is present
	// but lets anonymous requests through
	OptionalAuth gin.HandlerFunc
	// RequireAdmin rejects non-admin principals; must run after Auth
	RequireAdmin gin.HandlerFunc
}

// BuildAPIRoutes assembles the versioned API route tree. The catalog
// surface is public (browsing works anonymously), order and review
// mutations require a customer token, and fulfillment plus catalog
// management sit behind the admin group.
func BuildAPIRoutes(h Handlers, mw Middleware) []RouteRegistrar {
	catalog := NewDomainGroup("catalog", "/products")
	catalog.Use(mw.OptionalAuth)
	catalog.GET("", h.Products.List)
	catalog.GET("/featured", h.Products.ListFeatured)
	catalog.GET("/:id", h.Products.Get)
	catalog.GET("/:id/reviews", h.Reviews.ListByProduct)
	catalog.GET("/:id/rating", h.Reviews.ProductRating)
	catalog.POST("/:id/reviews", mw.Auth, h.Reviews.Create)

	catalogAdmin := NewDomainGroup("catalog-admin", "/products")
	catalogAdmin.Use(mw.Auth, mw.RequireAdmin)
	catalogAdmin.POST("", h.Products.Create)
	catalogAdmin.PUT("/:id", h.Products.Update)
	catalogAdmin.DELETE("/:id", h.Products.Delete)
	catalogAdmin.POST("/:id/stock", h.Products.AdjustStock)
	catalogAdmin.POST("/:id/activate", h.Products.Activate)
	catalogAdmin.POST("/:id/deactivate", h.Products.Deactivate)

	orders := NewDomainGroup("orders", "/orders")
	orders.Use(mw.Auth)
	orders.POST("", h.Orders.Create)
	orders.GET("", h.Orders.ListMine)
	orders.GET("/:id", h.Orders.Get)
	orders.GET("/number/:number", h.Orders.GetByNumber)
	orders.POST("/:id/cancel", h.Orders.Cancel)

	reviews := NewDomainGroup("reviews", "/reviews")
	reviews.GET("/:id", h.Reviews.Get)
	reviews.PUT("/:id", mw.Auth, h.Reviews.Update)
	reviews.DELETE("/:id", mw.Auth, h.Reviews.Delete)

	admin := NewDomainGroup("admin", "/admin")
	admin.Use(mw.Auth, mw.RequireAdmin)
	admin.GET("/orders", h.Orders.ListAll)
	admin.GET("/orders/stats", h.Orders.Stats)
	admin.PUT("/orders/:id/status", h.Orders.UpdateStatus)
	admin.POST("/orders/:id/ship", h.Orders.Ship)
	admin.POST("/orders/:id/deliver", h.Orders.Deliver)

	return []RouteRegistrar{catalog, catalogAdmin, orders, reviews, admin}
}

// RegisterSystemRoutes mounts health endpoints outside the versioned API
// so load balancers can probe them without a version prefix.
func RegisterSystemRoutes(engine *gin.Engine, system *handler.SystemHandler) {
	engine.GET("/health", system.Health)
	engine.GET("/ready", system.Ready)
}
