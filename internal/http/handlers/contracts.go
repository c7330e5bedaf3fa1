package handlers

import (
	"context"

	"deligo-fulfillment/internal/domain"
)

type itemResolver interface {
	ResolveItem(ctx context.Context, orderID, itemID int64, action domain.Action, reason string) (domain.ResolveResult, error)
	ResolveItems(ctx context.Context, d domain.ItemDecision) (domain.ResolveResult, error)
}

type pickupConfirmer interface {
	Confirm(ctx context.Context, c domain.PickupConfirmation) error
}

type orderLister interface {
	ListVendorOrders(ctx context.Context, vendorID int64) ([]domain.VendorOrder, error)
}
