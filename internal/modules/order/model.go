package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/ritamendes/fornaria-backend/internal/modules/catalog"
	"github.com/ritamendes/fornaria-backend/internal/modules/payment"
)

// Status represents the workflow state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in-progress"
	StatusReady      Status = "ready"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// DeliveryMethod indicates how the order reaches the customer.
type DeliveryMethod string

const (
	MethodPickup   DeliveryMethod = "pickup"
	MethodDelivery DeliveryMethod = "delivery"
)

// DeliveryAddress is the address snapshot frozen onto a delivery order at
// creation time.
type DeliveryAddress struct {
	ID         uuid.UUID `json:"id"`
	Label      string    `json:"label,omitempty"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	PostalCode string    `json:"postal_code"`
}

// Order is a priced, validated bakery order. Customer details, line items
// and prices are snapshots taken at creation time and are not re-synced
// when the customer or catalog later changes. PaidAmount and PaymentStatus
// are a materialized view over the payment ledger; only reconciliation
// writes them.
type Order struct {
	ID              uuid.UUID        `json:"id"`
	OrderNumber     string           `json:"order_number"`
	CustomerID      uuid.UUID        `json:"customer_id"`
	CustomerName    string           `json:"customer_name"`
	CustomerPhone   string           `json:"customer_phone,omitempty"`
	CustomerEmail   string           `json:"customer_email,omitempty"`
	DeliveryMethod  DeliveryMethod   `json:"delivery_method"`
	DeliveryAddress *DeliveryAddress `json:"delivery_address,omitempty"`
	FulfillAt       time.Time        `json:"fulfill_at"`
	Items           []*Item          `json:"items,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	SubTotal        float64          `json:"sub_total"`
	Discount        float64          `json:"discount"`
	TotalAmount     float64          `json:"total_amount"`
	PaidAmount      float64          `json:"paid_amount"`
	PaymentStatus   payment.Status   `json:"payment_status"`
	Status          Status           `json:"status"`
	CreatedBy       uuid.UUID        `json:"created_by"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Item is a priced line item within an order, immutable once created. The
// pricing method dictates which measure is set: quantity for perunit,
// weight for perkg; the other is always nil.
type Item struct {
	ID                  uuid.UUID             `json:"id"`
	OrderID             uuid.UUID             `json:"order_id"`
	ProductTypeID       uuid.UUID             `json:"product_type_id"`
	ProductName         string                `json:"product_name"`
	FlavorID            uuid.UUID             `json:"flavor_id"`
	FlavorName          string                `json:"flavor_name"`
	ShapeID             *uuid.UUID            `json:"shape_id,omitempty"`
	ShapeName           string                `json:"shape_name,omitempty"`
	PricingMethod       catalog.PricingMethod `json:"pricing_method"`
	Quantity            *int                  `json:"quantity,omitempty"`
	Weight              *float64              `json:"weight,omitempty"`
	UnitBasePrice       float64               `json:"unit_base_price"`
	FlavorExtraPrice    float64               `json:"flavor_extra_price"`
	LineTotal           float64               `json:"line_total"`
	SpecialInstructions string                `json:"special_instructions,omitempty"`
}

// ItemRequest describes one requested line item before pricing.
type ItemRequest struct {
	ProductTypeID       string   `json:"product_type_id"`
	FlavorID            string   `json:"flavor_id"`
	CakeShapeID         string   `json:"cake_shape_id,omitempty"`
	Quantity            *int     `json:"quantity,omitempty"`
	Weight              *float64 `json:"weight,omitempty"`
	SpecialInstructions string   `json:"special_instructions,omitempty"`
}

// CreateOrderRequest is the payload for creating a new order.
// InitialPaidAmount is informational: it seeds the derived payment status
// but never creates a ledger transaction — recording the money itself
// takes an explicit payment call.
type CreateOrderRequest struct {
	CustomerID        string        `json:"customer_id"`
	DeliveryMethod    string        `json:"delivery_method"`
	DeliveryAddressID string        `json:"delivery_address_id,omitempty"`
	FulfillAt         time.Time     `json:"fulfill_at"`
	Items             []ItemRequest `json:"items"`
	Notes             string        `json:"notes,omitempty"`
	InitialPaidAmount float64       `json:"initial_paid_amount,omitempty"`
}

// UpdateStatusRequest is the payload for advancing an order's workflow status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
