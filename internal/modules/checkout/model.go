package checkout

import (
	"time"

	"github.com/georgemunganga/storefront-checkout/internal/modules/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutRequest is the JSON payload of POST /api/v1/checkout. Clients send
// product ids and quantities only; prices always come from the catalog.
type CheckoutRequest struct {
	ShippingName         string                `json:"shipping_name" validate:"required,max=255"`
	ShippingAddress      string                `json:"shipping_address" validate:"required,max=500"`
	ShippingCity         string                `json:"shipping_city" validate:"required,max=100"`
	ShippingState        string                `json:"shipping_state" validate:"required,max=100"`
	ShippingZip          string                `json:"shipping_zip" validate:"required,max=20"`
	PaymentAuthorization payment.Authorization `json:"payment_authorization"`
	CouponCode           string                `json:"coupon_code,omitempty" validate:"max=50"`
	Notes                string                `json:"notes,omitempty" validate:"max=1000"`
	Items                []ItemRequest         `json:"items" validate:"required,min=1,dive"`
}

// ItemRequest is one requested cart line.
type ItemRequest struct {
	ID       int64 `json:"id" validate:"gt=0"`
	Quantity int   `json:"quantity" validate:"gt=0,lte=2147483647"`
}

// Address is where the order ships.
type Address struct {
	Name   string
	Street string
	City   string
	State  string
	Zip    string
}

// Checkout is a validated request, ready for the placement pipeline.
type Checkout struct {
	CustomerID uuid.UUID
	Lines      []CartLine
	CouponCode string
	ShipTo     Address
	Payment    payment.Authorization
	Notes      string
}

// CartLine is an untrusted product/quantity pair.
type CartLine struct {
	ProductID int64
	Quantity  int
}

// ValidatedLine carries the server-side snapshot of a product at checkout
// time. It is persisted verbatim as an order line.
type ValidatedLine struct {
	ProductID int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// Quote is the pre-promotion price of a cart.
type Quote struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
}

// Receipt identifies a committed order.
type Receipt struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Total       decimal.Decimal `json:"total"`
}

// OrderPlaced is published once an order has committed.
type OrderPlaced struct {
	OrderID     uuid.UUID    `json:"order_id"`
	OrderNumber string       `json:"order_number"`
	CustomerID  uuid.UUID    `json:"customer_id"`
	Total       string       `json:"total"`
	Items       []PlacedItem `json:"items"`
	PlacedAt    time.Time    `json:"placed_at"`
}

type PlacedItem struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}
