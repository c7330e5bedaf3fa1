package repository

import (
	"context"
	"fmt"

	"deligo-fulfillment/internal/domain"
)

// GetUser - user directory lookup.
func (r *TxRepo) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var (
		u        domain.User
		lat, lng *float64
	)
	err := r.tx.QueryRow(ctx, `
        SELECT id, role, first_name, last_name, latitude, longitude
        FROM users
        WHERE id = $1
    `, id).Scan(&u.ID, &u.Role, &u.FirstName, &u.LastName, &lat, &lng)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	if lat != nil && lng != nil {
		u.Location = domain.GeoPoint{Lat: *lat, Lng: *lng}
		u.HasCoords = true
	}
	return &u, nil
}

// EligibleCouriers - couriers with a position that are not assigned to an active order.
func (r *TxRepo) EligibleCouriers(ctx context.Context) ([]domain.CourierLocation, error) {
	rows, err := r.tx.Query(ctx, `
        SELECT u.id, u.latitude, u.longitude
        FROM users u
        WHERE u.role = $1
          AND u.latitude IS NOT NULL
          AND u.longitude IS NOT NULL
          AND NOT EXISTS (
              SELECT 1
              FROM orders o
              WHERE o.courier_id = u.id
                AND o.courier_id > 0
                AND o.status < $2
          )
        ORDER BY u.id
    `, string(domain.RoleCourier), int16(domain.OrderDelivered))
	if err != nil {
		return nil, fmt.Errorf("select eligible couriers: %w", err)
	}
	defer rows.Close()

	var out []domain.CourierLocation
	for rows.Next() {
		var c domain.CourierLocation
		if err := rows.Scan(&c.CourierID, &c.Location.Lat, &c.Location.Lng); err != nil {
			return nil, fmt.Errorf("scan courier: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate couriers: %w", err)
	}
	return out, nil
}

// DeleteOffers - drop earlier offers of the order.
func (r *TxRepo) DeleteOffers(ctx context.Context, orderID int64) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM delivery_offers WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete offers of order %d: %w", orderID, err)
	}
	return nil
}

// InsertOffer - persist a delivery candidate offer.
func (r *TxRepo) InsertOffer(ctx context.Context, o *domain.Offer) error {
	_, err := r.tx.Exec(ctx, `
        INSERT INTO delivery_offers (order_id, courier_id, vendor_to_courier_km, vendor_to_customer_km, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `, o.OrderID, o.CourierID, o.VendorToCourierKm, o.VendorToCustomerKm, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert offer order=%d courier=%d: %w", o.OrderID, o.CourierID, err)
	}
	return nil
}
