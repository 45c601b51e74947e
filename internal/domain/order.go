package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusFulfilled, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusFulfilled: {OrderStatusDelivered, OrderStatusRefunded},
	OrderStatusDelivered: {OrderStatusRefunded},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusRefunded
}

func (s OrderStatus) String() string { return string(s) }

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// OrderItem is a line frozen at checkout: the unit price recorded here
// never changes, whatever happens to the catalog afterwards.
type OrderItem struct {
	ProductID   primitive.ObjectID `bson:"product_id" json:"product_id"`
	ProductName string             `bson:"product_name" json:"product_name"`
	SKU         string             `bson:"sku" json:"sku"`
	UnitPrice   Money              `bson:"unit_price" json:"unit_price"`
	Quantity    int                `bson:"quantity" json:"quantity"`
}

// Order is append-only: created at checkout commit, advanced by
// payment/fulfillment events, never deleted.
type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Receipt        string             `bson:"receipt" json:"receipt"`
	SessionID      string             `bson:"session_id" json:"session_id"`
	UserID         string             `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Items          []OrderItem        `bson:"items" json:"items"`
	Status         OrderStatus        `bson:"status" json:"status"`
	Subtotal       Money              `bson:"subtotal" json:"subtotal"`
	Shipping       Money              `bson:"shipping" json:"shipping"`
	Tax            Money              `bson:"tax" json:"tax"`
	Total          Money              `bson:"total" json:"total"`
	PaymentStatus  PaymentStatus      `bson:"payment_status" json:"payment_status"`
	PaymentGateway string             `bson:"payment_gateway,omitempty" json:"payment_gateway,omitempty"`
	GatewayOrderID string             `bson:"gateway_order_id,omitempty" json:"gateway_order_id,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// Orders above this subtotal ship free; below it a flat fee applies.
var (
	freeShippingThreshold = decimal.NewFromInt(499)
	standardShipping      = decimal.NewFromInt(49)
	taxRate               = decimal.RequireFromString("0.05")
)

// ComputeTotals derives the frozen order amounts from snapshot lines:
// subtotal of unit price times quantity, flat shipping waived at the
// free-shipping threshold, and 5% tax rounded to two places.
func ComputeTotals(items []OrderItem) (subtotal, shipping, tax, total Money) {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	ship := standardShipping
	if sum.GreaterThanOrEqual(freeShippingThreshold) {
		ship = decimal.Zero
	}
	t := sum.Mul(taxRate).Round(2)

	return Money{sum}, Money{ship}, Money{t}, Money{sum.Add(ship).Add(t)}
}
