package domain

type (
	// OrderStatus is the aggregate status code stored on an order.
	OrderStatus int
	// ItemStatus is the per-item vendor decision code.
	ItemStatus int
	// Action is a vendor decision applied to order items.
	Action string
)

// List of order status codes
const (
	OrderPlaced    OrderStatus = 1
	OrderAccepted  OrderStatus = 2
	OrderInTransit OrderStatus = 3
	OrderDelivered OrderStatus = 5
	OrderRejected  OrderStatus = 6
)

// List of order item status codes
const (
	ItemPending  ItemStatus = 0
	ItemAccepted ItemStatus = 1
	ItemRejected ItemStatus = 2
)

// List of vendor actions
const (
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
)

// Active reports whether an order still occupies its assigned courier.
func (s OrderStatus) Active() bool {
	return s < OrderDelivered
}

// String returns a human readable status name.
func (s OrderStatus) String() string {
	switch s {
	case OrderPlaced:
		return "placed"
	case OrderAccepted:
		return "accepted"
	case OrderInTransit:
		return "in_transit"
	case OrderDelivered:
		return "delivered"
	case OrderRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Decided reports whether the vendor already accepted or rejected the item.
func (s ItemStatus) Decided() bool {
	return s == ItemAccepted || s == ItemRejected
}

// ParseAction converts raw input into an Action. Only the exact lowercase values are accepted.
func ParseAction(raw string) (Action, bool) {
	a := Action(raw)
	return a, a.Valid()
}

// Valid checks if the Action is one of the recognized values
func (a Action) Valid() bool {
	return a == ActionAccept || a == ActionReject
}

// ItemStatus returns the item status an action moves an item to.
func (a Action) ItemStatus() ItemStatus {
	if a == ActionAccept {
		return ItemAccepted
	}
	return ItemRejected
}
