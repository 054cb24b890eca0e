package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// CreateOrderItemInput represents a line in the create order request
type CreateOrderItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest represents a request to place an order
type CreateOrderRequest struct {
	Items           []CreateOrderItemInput `json:"items" binding:"required,min=1,dive"`
	ShippingAddress AddressInput           `json:"shipping_address" binding:"required"`
	BillingAddress  *AddressInput          `json:"billing_address"`
	PaymentMethod   string                 `json:"payment_method" binding:"max=50"`
	Notes           string                 `json:"notes" binding:"max=1000"`
}

// AddressInput represents an address in requests
type AddressInput struct {
	Line1      string `json:"line1" binding:"required,max=200"`
	Line2      string `json:"line2" binding:"max=200"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"required,max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=20"`
	Country    string `json:"country" binding:"max=2"`
}

// ToAddress converts the input to an Address value object
func (a AddressInput) ToAddress() (valueobject.Address, error) {
	opts := []valueobject.AddressOption{}
	if a.Line2 != "" {
		opts = append(opts, valueobject.WithLine2(a.Line2))
	}
	if a.Country != "" {
		opts = append(opts, valueobject.WithCountry(a.Country))
	}
	return valueobject.NewAddress(a.Line1, a.City, a.State, a.PostalCode, opts...)
}

// UpdateStatusRequest represents an admin status transition request
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"max=500"`
}

// AddShippingInfoRequest represents shipping details for an order
type AddShippingInfoRequest struct {
	Carrier           string     `json:"carrier" binding:"max=100"`
	TrackingNumber    string     `json:"tracking_number" binding:"required,max=100"`
	EstimatedDelivery *time.Time `json:"estimated_delivery"`
}

// CancelOrderRequest represents a cancellation request
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// OrderListFilter represents filter options for order listing
type OrderListFilter struct {
	Search        string     `form:"search"`
	Status        string     `form:"status" binding:"omitempty,oneof=pending processing shipped delivered cancelled"`
	PaymentStatus string     `form:"payment_status" binding:"omitempty,oneof=pending paid refunded failed"`
	StartDate     *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate       *time.Time `form:"end_date" time_format:"2006-01-02"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string     `form:"order_by" binding:"omitempty,oneof=created_at total_amount status"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderItemResponse represents a line item in API responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductSKU  string          `json:"product_sku"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                uuid.UUID           `json:"id"`
	OrderNumber       string              `json:"order_number"`
	UserID            uuid.UUID           `json:"user_id"`
	CustomerEmail     string              `json:"customer_email"`
	Items             []OrderItemResponse `json:"items"`
	ItemCount         int                 `json:"item_count"`
	Subtotal          decimal.Decimal     `json:"subtotal"`
	ShippingCost      decimal.Decimal     `json:"shipping_cost"`
	TaxAmount         decimal.Decimal     `json:"tax_amount"`
	TotalAmount       decimal.Decimal     `json:"total_amount"`
	Status            string              `json:"status"`
	PaymentStatus     string              `json:"payment_status"`
	PaymentMethod     string              `json:"payment_method,omitempty"`
	ShippingAddress   valueobject.Address `json:"shipping_address"`
	BillingAddress    valueobject.Address `json:"billing_address"`
	Carrier           string              `json:"carrier,omitempty"`
	TrackingNumber    string              `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time          `json:"estimated_delivery,omitempty"`
	Notes             string              `json:"notes,omitempty"`
	ShippedAt         *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt       *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt       *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason      string              `json:"cancel_reason,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// OrderListItemResponse represents an order in list responses (less detail)
type OrderListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	CustomerEmail string          `json:"customer_email"`
	ItemCount     int             `json:"item_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderStatsResponse represents aggregated order statistics
type OrderStatsResponse struct {
	Period            string           `json:"period"`
	From              time.Time        `json:"from"`
	To                time.Time        `json:"to"`
	TotalOrders       int64            `json:"total_orders"`
	TotalRevenue      decimal.Decimal  `json:"total_revenue"`
	AverageOrderValue decimal.Decimal  `json:"average_order_value"`
	PendingOrders     int64            `json:"pending_orders"`
	CompletedOrders   int64            `json:"completed_orders"`
	StatusCounts      map[string]int64 `json:"status_counts"`
}

// ToOrderResponse converts an order aggregate to its response DTO
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductSKU:  item.ProductSKU,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		}
	}

	return OrderResponse{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		UserID:            o.UserID,
		CustomerEmail:     o.CustomerEmail,
		Items:             items,
		ItemCount:         o.ItemCount(),
		Subtotal:          o.Subtotal,
		ShippingCost:      o.ShippingCost,
		TaxAmount:         o.TaxAmount,
		TotalAmount:       o.TotalAmount,
		Status:            string(o.Status),
		PaymentStatus:     string(o.PaymentStatus),
		PaymentMethod:     o.PaymentMethod,
		ShippingAddress:   o.ShippingAddress,
		BillingAddress:    o.BillingAddress,
		Carrier:           o.Carrier,
		TrackingNumber:    o.TrackingNumber,
		EstimatedDelivery: o.EstimatedDelivery,
		Notes:             o.Notes,
		ShippedAt:         o.ShippedAt,
		DeliveredAt:       o.DeliveredAt,
		CancelledAt:       o.CancelledAt,
		CancelReason:      o.CancelReason,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

// ToOrderListItemResponse converts an order to its list DTO
func ToOrderListItemResponse(o *order.Order) OrderListItemResponse {
	return OrderListItemResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerEmail: o.CustomerEmail,
		ItemCount:     o.ItemCount(),
		TotalAmount:   o.TotalAmount,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		CreatedAt:     o.CreatedAt,
	}
}

// ToOrderListItemResponses converts a slice of orders
func ToOrderListItemResponses(orders []order.Order) []OrderListItemResponse {
	responses := make([]OrderListItemResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderListItemResponse(&orders[i])
	}
	return responses
}
