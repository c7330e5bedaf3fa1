//go:generate mockgen -source=contracts.go -destination=resolver_mocks_test.go -package=resolver_test

package resolver

import (
	"context"

	"deligo-fulfillment/internal/domain"
	"deligo-fulfillment/internal/ports/fulfillmenttx"
	"deligo-fulfillment/internal/service/dispatch"
)

// TxRunner runs the resolver inside one workflow transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx fulfillmenttx.Repository) error) error
}

// CandidateSelector picks couriers for an order that has just been accepted.
type CandidateSelector interface {
	Select(ctx context.Context, tx dispatch.Store, order *domain.Order) ([]domain.Candidate, error)
}

// Notifier appends customer notifications and returns the outcome to report once the tx commits.
type Notifier interface {
	Emit(ctx context.Context, store fulfillmenttx.NotificationStore, userID int64, title string) string
}
