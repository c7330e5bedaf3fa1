package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"deligo-fulfillment/internal/domain"
)

// PaymentCompleted is the payment status of orders shown to vendors.
const PaymentCompleted = "completed"

// OrderRepo reads orders outside of the workflow transactions.
type OrderRepo struct {
	db *pgxpool.Pool
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(db *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{db: db}
}

// ListVendorOrders - paid orders of the vendor, newest first, with their items.
func (r *OrderRepo) ListVendorOrders(ctx context.Context, vendorID int64) ([]domain.VendorOrder, error) {
	rows, err := r.db.Query(ctx, `
        SELECT o.id, o.customer_id, o.vendor_id, o.status,
               o.total_amount::text, o.delivery_amount::text, o.tax_amount::text, o.discount::text,
               o.shipping_address, o.billing_address, o.payment_method, o.payment_status,
               o.latitude, o.longitude, o.courier_id, o.created_at,
               COALESCE(c.first_name, ''), COALESCE(c.last_name, '')
        FROM orders o
        LEFT JOIN users c ON c.id = o.customer_id
        WHERE o.vendor_id = $1
          AND o.payment_status = $2
        ORDER BY o.created_at DESC, o.id DESC
    `, vendorID, PaymentCompleted)
	if err != nil {
		return nil, fmt.Errorf("select orders of vendor %d: %w", vendorID, err)
	}
	defer rows.Close()

	var (
		out   []domain.VendorOrder
		ids   []int64
		index = make(map[int64]int)
	)
	for rows.Next() {
		var (
			o                       domain.VendorOrder
			status                  int16
			total, delivery, tax, d string
		)
		if err := rows.Scan(
			&o.ID, &o.CustomerID, &o.VendorID, &status,
			&total, &delivery, &tax, &d,
			&o.ShippingAddress, &o.BillingAddress, &o.PaymentMethod, &o.PaymentStatus,
			&o.Location.Lat, &o.Location.Lng, &o.CourierID, &o.CreatedAt,
			&o.CustomerFirstName, &o.CustomerLastName,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = domain.OrderStatus(status)
		if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("order %d total amount: %w", o.ID, err)
		}
		if o.DeliveryAmount, err = decimal.NewFromString(delivery); err != nil {
			return nil, fmt.Errorf("order %d delivery amount: %w", o.ID, err)
		}
		if o.TaxAmount, err = decimal.NewFromString(tax); err != nil {
			return nil, fmt.Errorf("order %d tax amount: %w", o.ID, err)
		}
		if o.Discount, err = decimal.NewFromString(d); err != nil {
			return nil, fmt.Errorf("order %d discount: %w", o.ID, err)
		}
		index[o.ID] = len(out)
		ids = append(ids, o.ID)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	if len(ids) == 0 {
		return out, nil
	}

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		i := index[it.OrderID]
		out[i].Items = append(out[i].Items, it)
	}
	return out, nil
}

func (r *OrderRepo) items(ctx context.Context, orderIDs []int64) ([]domain.OrderItem, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, order_id, product_name, quantity, amount::text, status, vendor_notes
        FROM order_items
        WHERE order_id = ANY($1)
        ORDER BY order_id, id
    `, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	var out []domain.OrderItem
	for rows.Next() {
		var (
			it     domain.OrderItem
			amount string
			status int16
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductName, &it.Quantity, &amount, &status, &it.VendorNote); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if it.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("item %d amount: %w", it.ID, err)
		}
		it.Status = domain.ItemStatus(status)
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return out, nil
}
