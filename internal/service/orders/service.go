package orders

import (
	"context"
	"time"

	"deligo-fulfillment/internal/apperr"
	"deligo-fulfillment/internal/domain"
)

// Service lists orders for the vendor dashboard.
type Service struct {
	repo             Repository
	operationTimeout time.Duration
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// NewService creates a new orders Service.
func NewService(r Repository, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{repo: r, operationTimeout: timeout}
}

// ListVendorOrders returns paid orders of the vendor, newest first.
func (s *Service) ListVendorOrders(ctx context.Context, vendorID int64) ([]domain.VendorOrder, error) {
	if vendorID <= 0 {
		return nil, apperr.ErrInvalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	orders, err := s.repo.ListVendorOrders(ctx, vendorID)
	if err != nil {
		return nil, apperr.Store("list vendor orders", err)
	}
	if orders == nil {
		orders = []domain.VendorOrder{}
	}
	return orders, nil
}
