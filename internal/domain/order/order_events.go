package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeOrderShipped       = "OrderShipped"
	EventTypeOrderDelivered     = "OrderDelivered"
	EventTypeOrderCancelled     = "OrderCancelled"
)

// OrderCreatedEvent is published when an order is placed
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	UserID      uuid.UUID       `json:"user_id"`
	ItemCount   int             `json:"item_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		ItemCount:       o.ItemCount(),
		TotalAmount:     o.TotalAmount,
	}
}

// OrderStatusChangedEvent is published when an order moves through the
// fulfillment state machine
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID   `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	OldStatus   OrderStatus `json:"old_status"`
	NewStatus   OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, oldStatus, newStatus OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// OrderShippedEvent is published when shipping info is recorded
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	Carrier        string    `json:"carrier,omitempty"`
	TrackingNumber string    `json:"tracking_number"`
}

// NewOrderShippedEvent creates a new OrderShippedEvent
func NewOrderShippedEvent(o *Order) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Carrier:         o.Carrier,
		TrackingNumber:  o.TrackingNumber,
	}
}

// OrderDeliveredEvent is published when an order is delivered
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID   `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	OldStatus   OrderStatus `json:"old_status"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(o *Order, oldStatus OrderStatus) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		OldStatus:       oldStatus,
	}
}

// OrderCancelledEvent is published when an order is cancelled. Consumers
// use it to audit stock restoration and refunds.
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID   `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	OldStatus   OrderStatus `json:"old_status"`
	Reason      string      `json:"reason,omitempty"`
	Refunded    bool        `json:"refunded"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order, oldStatus OrderStatus) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		OldStatus:       oldStatus,
		Reason:          o.CancelReason,
		Refunded:        o.PaymentStatus == PaymentStatusRefunded,
	}
}
