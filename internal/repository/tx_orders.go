package repository

import (
	"context"
	"fmt"

	"deligo-fulfillment/internal/domain"
)

const orderColumns = `id, customer_id, vendor_id, status, latitude, longitude, courier_id, delivery_code, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o      domain.Order
		status int16
	)
	err := row.Scan(&o.ID, &o.CustomerID, &o.VendorID, &status,
		&o.Location.Lat, &o.Location.Lng, &o.CourierID, &o.ConfirmationCode, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	return &o, nil
}

// LockOrder - select order by id with a row lock.
func (r *TxRepo) LockOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	o, err := scanOrder(r.tx.QueryRow(ctx, `
        SELECT `+orderColumns+`
        FROM orders
        WHERE id = $1
        FOR UPDATE
    `, orderID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock order %d: %w", orderID, err)
	}
	return o, nil
}

// LockVendorOrder - select vendor's order by id with a row lock.
func (r *TxRepo) LockVendorOrder(ctx context.Context, orderID, vendorID int64) (*domain.Order, error) {
	o, err := scanOrder(r.tx.QueryRow(ctx, `
        SELECT `+orderColumns+`
        FROM orders
        WHERE id = $1 AND vendor_id = $2
        FOR UPDATE
    `, orderID, vendorID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock order %d of vendor %d: %w", orderID, vendorID, err)
	}
	return o, nil
}

// ItemStatuses - statuses of every item of the order keyed by item id.
func (r *TxRepo) ItemStatuses(ctx context.Context, orderID int64) (map[int64]domain.ItemStatus, error) {
	rows, err := r.tx.Query(ctx, `SELECT id, status FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select items of order %d: %w", orderID, err)
	}
	defer rows.Close()

	out := make(map[int64]domain.ItemStatus)
	for rows.Next() {
		var (
			id     int64
			status int16
		)
		if err := rows.Scan(&id, &status); err != nil {
			return nil, fmt.Errorf("scan item of order %d: %w", orderID, err)
		}
		out[id] = domain.ItemStatus(status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items of order %d: %w", orderID, err)
	}
	return out, nil
}

// UpdatePendingItems - apply a vendor decision to pending items.
func (r *TxRepo) UpdatePendingItems(
	ctx context.Context,
	orderID int64,
	itemIDs []int64,
	status domain.ItemStatus,
	note string,
) (int64, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE order_items
        SET status = $1, vendor_notes = $2
        WHERE order_id = $3
          AND id = ANY($4)
          AND status = $5
    `, int16(status), note, orderID, itemIDs, int16(domain.ItemPending))
	if err != nil {
		return 0, fmt.Errorf("update items of order %d: %w", orderID, err)
	}
	return ct.RowsAffected(), nil
}

// SetOrderStatus - write the aggregate order status.
func (r *TxRepo) SetOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	ct, err := r.tx.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, orderID, int16(status))
	if err != nil {
		return fmt.Errorf("update order %d status: %w", orderID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("order %d not found", orderID)
	}
	return nil
}
