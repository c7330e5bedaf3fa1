package orders

import (
	"context"

	"deligo-fulfillment/internal/domain"
)

// Repository reads vendor orders.
type Repository interface {
	ListVendorOrders(ctx context.Context, vendorID int64) ([]domain.VendorOrder, error)
}
