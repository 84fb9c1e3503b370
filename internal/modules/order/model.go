package order

import (
	"time"

	"github.com/google/uuid"
)

// Status is the fulfilment state of an order.
type Status string

const (
	StatusPlaced         Status = "PLACED"
	StatusConfirmed      Status = "CONFIRMED"
	StatusPacked         Status = "PACKED"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
)

// ActiveStatuses are the states an order can still leave.
var ActiveStatuses = []Status{StatusPlaced, StatusConfirmed, StatusPacked, StatusOutForDelivery}

// PaymentMethod is how the customer settles an order.
type PaymentMethod string

const (
	PaymentWallet PaymentMethod = "WALLET"
	PaymentCOD    PaymentMethod = "COD"
)

// PaymentStatus tracks money for an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// Order is a checked-out cart.
type Order struct {
	ID                uuid.UUID     `json:"id"`
	OrderNumber       string        `json:"order_number"`
	CustomerID        uuid.UUID     `json:"customer_id"`
	BusinessProfileID uuid.UUID     `json:"business_profile_id"`
	Status            Status        `json:"status"`
	PaymentMethod     PaymentMethod `json:"payment_method"`
	PaymentStatus     PaymentStatus `json:"payment_status"`
	PaymentRef        string        `json:"payment_ref,omitempty"`
	Subtotal          float64       `json:"subtotal"`
	Discount          float64       `json:"discount"`
	DeliveryFee       float64       `json:"delivery_fee"`
	Total             float64       `json:"total"`
	Currency          string        `json:"currency"`
	DeliveryAddress   string        `json:"delivery_address,omitempty"`
	Notes             string        `json:"notes,omitempty"`
	Items             []*OrderItem  `json:"items,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// OrderItem is one cart line frozen at checkout.
type OrderItem struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit,omitempty"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	MRP       float64   `json:"mrp"`
	LineTotal float64   `json:"line_total"`
}

// StatusEvent is one step of an order's timeline.
type StatusEvent struct {
	Status    Status    `json:"status"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Tracking is an order with its timeline, oldest event first.
type Tracking struct {
	Order  *Order        `json:"order"`
	Events []StatusEvent `json:"events"`
}

// CheckoutRequest carries what the cart does not know.
type CheckoutRequest struct {
	PaymentMethod   string  `json:"payment_method"` // WALLET | COD
	DeliveryAddress string  `json:"delivery_address"`
	DeliveryFee     float64 `json:"delivery_fee"`
	Notes           string  `json:"notes,omitempty"`
}

// UpdateStatusRequest is the payload for advancing an order's status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}
