package dispatch

import (
	"context"
	"time"

	"deligo-fulfillment/internal/apperr"
	"deligo-fulfillment/internal/domain"
	"deligo-fulfillment/internal/logx"
	"deligo-fulfillment/internal/ports/fulfillmenttx"
)

// DefaultLimit is the number of couriers offered per order.
const DefaultLimit = 5

// Store is the part of the workflow transaction used by the selector.
type Store interface {
	fulfillmenttx.Directory
	fulfillmenttx.OfferStore
}

// Selector picks the nearest free couriers for an accepted order and records offers for them.
type Selector struct {
	policy domain.OfferPolicy
	limit  int
	logger logx.Logger
	now    func() time.Time
}

// NewSelector creates a new Selector.
func NewSelector(policy domain.OfferPolicy, limit int, logger logx.Logger) *Selector {
	if policy == "" {
		policy = domain.OfferReplace
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Selector{
		policy: policy,
		limit:  limit,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Select ranks eligible couriers for the order and persists one offer per candidate.
// The order status is not checked. A vendor without coordinates yields no candidates.
func (s *Selector) Select(ctx context.Context, tx Store, order *domain.Order) ([]domain.Candidate, error) {
	vendor, err := tx.GetUser(ctx, order.VendorID)
	if err != nil {
		return nil, apperr.Store("get vendor", err)
	}
	if vendor == nil || !vendor.HasCoords {
		s.logger.Warn("vendor location unknown, no candidates selected",
			logx.Int64("order_id", order.ID),
			logx.Int64("vendor_id", order.VendorID),
		)
		return nil, nil
	}

	couriers, err := tx.EligibleCouriers(ctx)
	if err != nil {
		return nil, apperr.Store("eligible couriers", err)
	}

	candidates := Rank(order.ID, vendor.Location, order.Location, couriers, s.limit)

	if s.policy == domain.OfferReplace {
		if err := tx.DeleteOffers(ctx, order.ID); err != nil {
			return nil, apperr.Store("delete offers", err)
		}
	}

	now := s.now()
	for _, c := range candidates {
		err := tx.InsertOffer(ctx, &domain.Offer{
			OrderID:            c.OrderID,
			CourierID:          c.CourierID,
			VendorToCourierKm:  c.VendorToCourierKm,
			VendorToCustomerKm: c.VendorToCustomerKm,
			CreatedAt:          now,
		})
		if err != nil {
			return nil, apperr.Store("insert offer", err)
		}
	}

	return candidates, nil
}
