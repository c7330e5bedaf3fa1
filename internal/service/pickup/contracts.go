package pickup

import (
	"context"

	"deligo-fulfillment/internal/ports/fulfillmenttx"
)

// TxRunner runs the confirmation inside one workflow transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx fulfillmenttx.Repository) error) error
}

// Notifier appends customer notifications and returns the outcome to report once the tx commits.
type Notifier interface {
	Emit(ctx context.Context, store fulfillmenttx.NotificationStore, userID int64, title string) string
}
