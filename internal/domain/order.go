package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a customer order placed with a single vendor.
type Order struct {
	ID               int64
	CustomerID       int64
	VendorID         int64
	Status           OrderStatus
	TotalAmount      decimal.Decimal
	DeliveryAmount   decimal.Decimal
	TaxAmount        decimal.Decimal
	Discount         decimal.Decimal
	ShippingAddress  string
	BillingAddress   string
	PaymentMethod    string
	PaymentStatus    string
	Location         GeoPoint
	CourierID        int64
	ConfirmationCode string
	CreatedAt        time.Time
}

// OrderItem is a single product line of an order.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductName string
	Quantity    int
	Amount      decimal.Decimal
	Status      ItemStatus
	VendorNote  string
}

// VendorOrder is an order as shown on the vendor dashboard.
type VendorOrder struct {
	Order
	CustomerFirstName string
	CustomerLastName  string
	Items             []OrderItem
}

// ItemDecision carries a vendor decision for a set of items of one order.
type ItemDecision struct {
	OrderID int64
	ItemIDs []int64
	Action  Action
	Reason  string
}

// Note returns the vendor note stored with the decision.
func (d ItemDecision) Note() string {
	if d.Action == ActionReject {
		return d.Reason
	}
	return ""
}

// ResolveResult is returned by the order item resolver.
type ResolveResult struct {
	OrderID int64
	// Status is the aggregate status after the call; zero when it was left unchanged.
	Status     OrderStatus
	Changed    bool
	Candidates []Candidate
}

// PickupConfirmation is a courier's request to confirm pickup at the vendor.
type PickupConfirmation struct {
	OrderID  int64
	VendorID int64
	Code     string
}
