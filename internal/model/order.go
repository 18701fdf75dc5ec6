package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the confirmation axis of an order, owned by the order
// workflow on the backend.
type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending Confirmation"
	OrderConfirmed OrderStatus = "Confirmed"
	OrderRejected  OrderStatus = "Rejected"
)

// Courier tracking states, sourced from the courier-status endpoint. This
// axis is independent of OrderStatus and the two never overwrite each other.
const (
	CourierNotAssigned = "Not Assigned"
	CourierAssigned    = "Assigned"
	CourierInTransit   = "In Transit"
	CourierDelivered   = "Delivered"
	CourierProcessing  = "Processing"
)

// CourierInfo is the delivery sub-status for one order. Source records where
// the data came from: "courier" for a live fetch, "default" for the fallback
// applied when the fetch fails.
type CourierInfo struct {
	Status      string `json:"status"`
	CourierName string `json:"courierName"`
	Source      string `json:"source"`
}

const (
	CourierSourceLive    = "courier"
	CourierSourceDefault = "default"
)

// DefaultCourierInfo is the safe fallback used when a courier fetch fails.
func DefaultCourierInfo() CourierInfo {
	return CourierInfo{
		Status:      CourierProcessing,
		CourierName: CourierNotAssigned,
		Source:      CourierSourceDefault,
	}
}

// OrderItem is one line of a placed order with the price captured at
// purchase time.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Address is the shipping destination submitted at checkout.
type Address struct {
	FullName string `json:"fullName"`
	Street   string `json:"street"`
	City     string `json:"city"`
	Province string `json:"province"`
	Postcode string `json:"postcode"`
	Phone    string `json:"phone"`
}

// Order is a placed order as returned by the backend. The client only reads
// and refreshes it; Courier is merged in locally from the tracking source.
type Order struct {
	ID              string          `json:"_id"`
	Items           []OrderItem     `json:"items"`
	Status          OrderStatus     `json:"status"`
	Courier         CourierInfo     `json:"courierInfo"`
	ShippingAddress Address         `json:"address"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"paymentMethod"`
	CreatedAt       time.Time       `json:"date"`
}

// DisplayStatus collapses the two axes for presentation only: the courier
// sub-status is shown when it carries information beyond the order status.
func (o *Order) DisplayStatus() string {
	if o.Courier.Status != "" && o.Courier.Status != string(o.Status) {
		return string(o.Status) + " / " + o.Courier.Status
	}
	return string(o.Status)
}

// PlaceOrderRequest is the checkout payload for POST /api/order/place.
type PlaceOrderRequest struct {
	Address       Address         `json:"address"`
	Items         []OrderItem     `json:"items"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
}
