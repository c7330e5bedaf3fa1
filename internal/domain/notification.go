package domain

import (
	"errors"
	"time"
)

// Notification titles sent to customers
const (
	TitleVendorAccepted  = "Vendor accepted your order"
	TitleVendorRejected  = "Vendor rejected your order"
	TitleCourierPickedUp = "Delivery person received your item"
)

// ErrNotificationIDRequired is returned by a notification store that does not assign ids itself.
var ErrNotificationIDRequired = errors.New("notification id must be assigned explicitly")

// Notification is a customer-facing message.
type Notification struct {
	ID         int64
	UserID     int64
	Title      string
	Read       bool
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// StatusTitle returns the notification title for an aggregate status change.
func StatusTitle(s OrderStatus) (string, bool) {
	switch s {
	case OrderAccepted:
		return TitleVendorAccepted, true
	case OrderRejected:
		return TitleVendorRejected, true
	default:
		return "", false
	}
}
