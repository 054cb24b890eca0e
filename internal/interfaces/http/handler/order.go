package handler

import (
	"github.com/gin-gonic/gin"

	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/order"
)

// OrderHandler handles order API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req orderapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	created, err := h.orderService.Create(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, created)
}

// Get handles GET /orders/:id. Customers can only read their own orders.
func (h *OrderHandler) Get(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := h.orderService.GetByID(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByNumber handles GET /orders/number/:number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	result, err := h.orderService.GetByOrderNumber(c.Request.Context(), principal, number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListMine handles GET /orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter orderapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.orderService.ListForUser(c.Request.Context(), principal.UserID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// ListAll handles GET /admin/orders (admin)
func (h *OrderHandler) ListAll(c *gin.Context) {
	var filter orderapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.orderService.ListAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// Cancel handles POST /orders/:id/cancel. The owner or an administrator
// can cancel any order that is not yet delivered or cancelled.
func (h *OrderHandler) Cancel(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.ValidationError(c, err)
		return
	}

	result, err := h.orderService.Cancel(c.Request.Context(), principal, id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateStatus handles PUT /admin/orders/:id/status (admin)
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.orderService.UpdateStatus(c.Request.Context(), id, order.OrderStatus(req.Status), req.Note)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Ship handles POST /admin/orders/:id/ship (admin)
func (h *OrderHandler) Ship(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderapp.AddShippingInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.orderService.AddShippingInfo(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Deliver handles POST /admin/orders/:id/deliver (admin)
func (h *OrderHandler) Deliver(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := h.orderService.MarkDelivered(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Stats handles GET /admin/orders/stats (admin)
func (h *OrderHandler) Stats(c *gin.Context) {
	period := orderapp.StatsPeriod(c.DefaultQuery("period", string(orderapp.StatsPeriodMonth)))

	result, err := h.orderService.Stats(c.Request.Context(), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
