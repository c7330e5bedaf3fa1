package dispatch

import (
	"cmp"
	"slices"

	"deligo-fulfillment/internal/domain"
)

// Rank orders couriers by distance from the vendor, nearest first, ties by courier id,
// and keeps at most limit of them. A non-positive limit keeps every courier.
func Rank(orderID int64, vendor, customer domain.GeoPoint, couriers []domain.CourierLocation, limit int) []domain.Candidate {
	if len(couriers) == 0 {
		return nil
	}

	toCustomer := domain.DistanceKm(vendor, customer)
	out := make([]domain.Candidate, 0, len(couriers))
	for _, c := range couriers {
		out = append(out, domain.Candidate{
			OrderID:            orderID,
			CourierID:          c.CourierID,
			VendorToCourierKm:  domain.DistanceKm(vendor, c.Location),
			VendorToCustomerKm: toCustomer,
			Courier:            c.Location,
			Vendor:             vendor,
			Customer:           customer,
		})
	}

	slices.SortFunc(out, func(a, b domain.Candidate) int {
		if c := cmp.Compare(a.VendorToCourierKm, b.VendorToCourierKm); c != 0 {
			return c
		}
		return cmp.Compare(a.CourierID, b.CourierID)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
