package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Lat float64
	Lng float64
}

// DistanceKm returns the haversine distance between two points.
func DistanceKm(a, b GeoPoint) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLat := lat2 - lat1
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// rounding can push h marginally past 1 for antipodal points
	h = math.Min(1, h)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// Candidate is a courier proposed for an accepted order.
type Candidate struct {
	OrderID            int64
	CourierID          int64
	VendorToCourierKm  float64
	VendorToCustomerKm float64
	Courier            GeoPoint
	Vendor             GeoPoint
	Customer           GeoPoint
}

// Offer is a persisted candidate record.
type Offer struct {
	OrderID            int64
	CourierID          int64
	VendorToCourierKm  float64
	VendorToCustomerKm float64
	CreatedAt          time.Time
}

// OfferPolicy decides what happens to earlier offers when selection re-runs for an order.
type OfferPolicy string

// List of offer policies
const (
	// OfferReplace drops earlier offers of the order before writing the new set.
	OfferReplace OfferPolicy = "replace"
	// OfferAppend keeps every selection run, duplicates included.
	OfferAppend OfferPolicy = "append"
)

// ParseOfferPolicy parses a configured policy name.
func ParseOfferPolicy(raw string) (OfferPolicy, error) {
	switch p := OfferPolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case OfferReplace, OfferAppend:
		return p, nil
	case "":
		return OfferReplace, nil
	default:
		return "", fmt.Errorf("unknown offer policy %q", raw)
	}
}

// OrderEvent is published after a committed order status change.
type OrderEvent struct {
	OrderID    int64       `json:"order_id"`
	Status     OrderStatus `json:"status"`
	CustomerID int64       `json:"customer_id"`
	Candidates []int64     `json:"candidates,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}
