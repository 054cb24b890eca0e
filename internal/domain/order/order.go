package order

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for states with no outgoing transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status.
// Orders move forward through pending, processing, shipped, delivered, and
// may be cancelled from any non-terminal state.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusProcessing || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered || target == OrderStatusCancelled
	case OrderStatusDelivered, OrderStatusCancelled:
		return false
	}
	return false
}

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded, PaymentStatusFailed:
		return true
	}
	return false
}

// OrderItem is an immutable line item holding a snapshot of the product
// at purchase time. Catalog edits after checkout never change an order.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductSKU  string          `gorm:"type:varchar(50);not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity    int             `gorm:"not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt   time.Time
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a line item snapshot for a product
func NewOrderItem(orderID, productID uuid.UUID, sku, name string, unitPrice valueobject.Money, quantity int) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidRequest, "order item product id is required")
	}
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidRequest, "order item product name is required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidRequest, "order item quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidRequest, "order item unit price cannot be negative")
	}

	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductSKU:  sku,
		ProductName: name,
		UnitPrice:   unitPrice.Amount(),
		Quantity:    quantity,
		Subtotal:    unitPrice.Amount().Mul(decimal.NewFromInt(int64(quantity))),
		CreatedAt:   time.Now(),
	}, nil
}

// GetUnitPriceMoney returns the unit price as a Money value object
func (i *OrderItem) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.UnitPrice)
}

// GetSubtotalMoney returns the line subtotal as a Money value object
func (i *OrderItem) GetSubtotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.Subtotal)
}

// Order is the aggregate root for a customer order. It owns its line items
// and enforces the status state machine. CustomerEmail is a snapshot taken
// at checkout so the order stays searchable even if the account changes.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber       string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	UserID            uuid.UUID           `gorm:"type:uuid;not null;index"`
	CustomerEmail     string              `gorm:"type:varchar(255);not null;index"`
	Items             []OrderItem         `gorm:"foreignKey:OrderID"`
	Subtotal          decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	ShippingCost      decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	TaxAmount         decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	TotalAmount       decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Status            OrderStatus         `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus     PaymentStatus       `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentMethod     string              `gorm:"type:varchar(50)"`
	ShippingAddress   valueobject.Address `gorm:"type:jsonb"`
	BillingAddress    valueobject.Address `gorm:"type:jsonb"`
	TrackingNumber    string              `gorm:"type:varchar(100)"`
	Carrier           string              `gorm:"type:varchar(100)"`
	EstimatedDelivery *time.Time
	Notes             string `gorm:"type:text"`
	ShippedAt         *time.Time
	DeliveredAt       *time.Time
	CancelledAt       *time.Time
	CancelReason      string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new pending order. Items and pricing totals are added
// by the checkout workflow before the order is persisted.
func NewOrder(userID uuid.UUID, customerEmail string, shippingAddr, billingAddr valueobject.Address) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidRequest, "order user id is required")
	}
	if customerEmail == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidRequest, "order customer email is required")
	}
	if err := shippingAddr.Validate(); err != nil {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidRequest, "invalid shipping address: %s", err.Error())
	}
	if billingAddr.IsEmpty() {
		billingAddr = shippingAddr
	} else if err := billingAddr.Validate(); err != nil {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidRequest, "invalid billing address: %s", err.Error())
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       GenerateOrderNumber(),
		UserID:            userID,
		CustomerEmail:     strings.ToLower(strings.TrimSpace(customerEmail)),
		Items:             make([]OrderItem, 0),
		Subtotal:          decimal.Zero,
		ShippingCost:      decimal.Zero,
		TaxAmount:         decimal.Zero,
		TotalAmount:       decimal.Zero,
		Status:            OrderStatusPending,
		PaymentStatus:     PaymentStatusPending,
		ShippingAddress:   shippingAddr,
		BillingAddress:    billingAddr,
	}

	return order, nil
}

// AddItem appends a line item snapshot. Only allowed before the order
// leaves the pending state.
func (o *Order) AddItem(productID uuid.UUID, sku, name string, unitPrice valueobject.Money, quantity int) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError(shared.CodeInvalidTransition, "cannot add items to a non-pending order")
	}
	for _, item := range o.Items {
		if item.ProductID == productID {
			return shared.NewDomainError(shared.CodeInvalidRequest, "product already in order")
		}
	}

	item, err := NewOrderItem(o.ID, productID, sku, name, unitPrice, quantity)
	if err != nil {
		return err
	}

	o.Items = append(o.Items, *item)
	o.UpdatedAt = time.Now()

	return nil
}

// ApplyPricing writes the computed pricing breakdown onto the order
func (o *Order) ApplyPricing(breakdown PricingBreakdown) error {
	if len(o.Items) == 0 {
		return shared.NewDomainError(shared.CodeInvalidRequest, "cannot price an order without items")
	}

	o.Subtotal = breakdown.Subtotal
	o.ShippingCost = breakdown.ShippingCost
	o.TaxAmount = breakdown.TaxAmount
	o.TotalAmount = breakdown.Total
	o.UpdatedAt = time.Now()

	return nil
}

// Place finalizes a new order once items and pricing are set, emitting the
// created event.
func (o *Order) Place() error {
	if len(o.Items) == 0 {
		return shared.NewDomainError(shared.CodeInvalidRequest, "cannot place an order without items")
	}
	if o.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeInvalidRequest, "order total must be positive")
	}

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return nil
}

// UpdateStatus transitions the order to the target status, enforcing the
// state machine. Cancellation must go through Cancel so stock restoration
// is never skipped.
func (o *Order) UpdateStatus(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainErrorf(shared.CodeInvalidRequest, "unknown order status %q", target)
	}
	if target == OrderStatusCancelled {
		return shared.NewDomainError(shared.CodeInvalidTransition, "use cancellation to cancel an order")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainErrorf(shared.CodeInvalidTransition,
			"cannot transition order from %s to %s", o.Status, target)
	}

	oldStatus := o.Status
	now := time.Now()
	o.Status = target
	o.UpdatedAt = now

	switch target {
	case OrderStatusShipped:
		o.ShippedAt = &now
	case OrderStatusDelivered:
		o.DeliveredAt = &now
	}

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, oldStatus, target))

	return nil
}

// AddShippingInfo attaches logistics metadata to the order. It does not
// change the status; shipping the order goes through UpdateStatus.
func (o *Order) AddShippingInfo(carrier, trackingNumber string, estimatedDelivery *time.Time) error {
	if trackingNumber == "" {
		return shared.NewDomainError(shared.CodeInvalidRequest, "tracking number is required")
	}
	if o.Status != OrderStatusProcessing && o.Status != OrderStatusShipped {
		return shared.NewDomainErrorf(shared.CodeInvalidTransition,
			"cannot attach shipping info to order in %s status", o.Status)
	}

	o.Carrier = carrier
	o.TrackingNumber = trackingNumber
	o.EstimatedDelivery = estimatedDelivery
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewOrderShippedEvent(o))

	return nil
}

// MarkDelivered completes the order. Delivery implies the payment settled,
// so the payment status is forced to paid.
func (o *Order) MarkDelivered() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainErrorf(shared.CodeInvalidTransition,
			"cannot deliver order in %s status", o.Status)
	}

	oldStatus := o.Status
	now := time.Now()
	o.Status = OrderStatusDelivered
	o.PaymentStatus = PaymentStatusPaid
	o.DeliveredAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderDeliveredEvent(o, oldStatus))

	return nil
}

// Cancel cancels the order. The caller restores the reserved stock; the
// payment status always flips to refunded on cancellation.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainErrorf(shared.CodeInvalidTransition,
			"cannot cancel order in %s status", o.Status)
	}

	oldStatus := o.Status
	now := time.Now()
	o.Status = OrderStatusCancelled
	o.PaymentStatus = PaymentStatusRefunded
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCancelledEvent(o, oldStatus))

	return nil
}

// MarkPaid records a settled payment
func (o *Order) MarkPaid() error {
	if o.Status == OrderStatusCancelled {
		return shared.NewDomainError(shared.CodeInvalidTransition, "cannot pay a cancelled order")
	}
	if o.PaymentStatus == PaymentStatusPaid {
		return shared.NewDomainError(shared.CodeInvalidRequest, "order is already paid")
	}

	o.PaymentStatus = PaymentStatusPaid
	o.UpdatedAt = time.Now()

	return nil
}

// SetNotes sets free-form order notes
func (o *Order) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
}

// AppendNote appends an administrative note to the order. Empty notes are
// ignored.
func (o *Order) AppendNote(note string) {
	if note == "" {
		return
	}
	if o.Notes == "" {
		o.Notes = note
	} else {
		o.Notes = o.Notes + "\n" + note
	}
	o.UpdatedAt = time.Now()
}

// SetPaymentMethod records how the customer intends to pay
func (o *Order) SetPaymentMethod(method string) {
	o.PaymentMethod = method
	o.UpdatedAt = time.Now()
}

// IsOwnedBy returns true if the order belongs to the given user
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

// IsTerminal returns true if the order is delivered or cancelled
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// ItemCount returns the number of line items
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// TotalQuantity returns the sum of all item quantities
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// GetTotalMoney returns the grand total as a Money value object
func (o *Order) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.TotalAmount)
}

// GenerateOrderNumber produces a human-readable order number from the
// current timestamp plus a random suffix. Collisions are extremely
// unlikely but not impossible; the unique index on order_number is the
// final guard.
func GenerateOrderNumber() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		// Fall back to nanosecond entropy if the system RNG is unavailable.
		return fmt.Sprintf("ORD-%s-%06X", ts, time.Now().UnixNano()&0xFFFFFF)
	}
	return fmt.Sprintf("ORD-%s-%s", ts, strings.ToUpper(hex.EncodeToString(suffix)))
}
