package fulfillmenttx

import (
	"context"

	"deligo-fulfillment/internal/domain"
)

// OrderStore reads and writes orders and their items inside a transaction.
type OrderStore interface {
	// LockOrder returns the order with its row locked, or nil when it does not exist.
	LockOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	// LockVendorOrder is LockOrder restricted to the vendor owning the order.
	LockVendorOrder(ctx context.Context, orderID, vendorID int64) (*domain.Order, error)
	ItemStatuses(ctx context.Context, orderID int64) (map[int64]domain.ItemStatus, error)
	// UpdatePendingItems decides pending items only and returns the number of rows changed.
	UpdatePendingItems(ctx context.Context, orderID int64, itemIDs []int64, status domain.ItemStatus, note string) (int64, error)
	SetOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error
}

// Directory resolves platform users.
type Directory interface {
	// GetUser returns nil when the user does not exist.
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	// EligibleCouriers lists couriers with coordinates that are not busy with an active order.
	EligibleCouriers(ctx context.Context) ([]domain.CourierLocation, error)
}

// OfferStore persists delivery candidate offers.
type OfferStore interface {
	DeleteOffers(ctx context.Context, orderID int64) error
	InsertOffer(ctx context.Context, o *domain.Offer) error
}

// NotificationStore appends customer notifications with a store assigned id.
// It returns domain.ErrNotificationIDRequired when the store cannot assign one.
type NotificationStore interface {
	AppendNotification(ctx context.Context, n *domain.Notification) error
}

// GeneratedIDNotificationStore is the optional capability of assigning max(id)+1 explicitly.
type GeneratedIDNotificationStore interface {
	AppendNotificationWithGeneratedID(ctx context.Context, n *domain.Notification) error
}

// Repository is everything the fulfillment workflow touches in one transaction.
type Repository interface {
	OrderStore
	Directory
	OfferStore
	NotificationStore
	GeneratedIDNotificationStore
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
