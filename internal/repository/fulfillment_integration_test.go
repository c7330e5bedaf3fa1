//go:build integration

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/suite"

	"deligo-fulfillment/internal/domain"
	"deligo-fulfillment/internal/ports/fulfillmenttx"
	"deligo-fulfillment/internal/repository"
)

type FulfillmentRepositorySuite struct {
	suite.Suite
	repo *repository.FulfillmentRepo
}

func TestFulfillmentRepositorySuite(t *testing.T) {
	suite.Run(t, new(FulfillmentRepositorySuite))
}

func (s *FulfillmentRepositorySuite) SetupSuite() {
	s.repo = repository.NewFulfillmentRepo(tcPool, repository.TxOptions{Isolation: "serializable", MaxAttempts: 3}, nil)
}

func (s *FulfillmentRepositorySuite) SetupTest() {
	s.Require().NoError(truncateAll(context.Background(), tcPool))
}

func (s *FulfillmentRepositorySuite) createUser(role domain.Role, lat, lng *float64) int64 {
	var id int64
	err := tcPool.QueryRow(context.Background(), `
		INSERT INTO users (role, first_name, last_name, latitude, longitude)
		VALUES ($1, 'First', 'Last', $2, $3)
		RETURNING id
	`, string(role), lat, lng).Scan(&id)
	s.Require().NoError(err)
	return id
}

func (s *FulfillmentRepositorySuite) createOrder(customerID, vendorID int64, status domain.OrderStatus, courierID int64, code string) int64 {
	var id int64
	err := tcPool.QueryRow(context.Background(), `
		INSERT INTO orders (customer_id, vendor_id, status, latitude, longitude, courier_id, delivery_code, payment_status)
		VALUES ($1, $2, $3, 1.5, 2.5, $4, $5, 'completed')
		RETURNING id
	`, customerID, vendorID, int16(status), courierID, code).Scan(&id)
	s.Require().NoError(err)
	return id
}

func (s *FulfillmentRepositorySuite) createItem(orderID int64, name string) int64 {
	var id int64
	err := tcPool.QueryRow(context.Background(), `
		INSERT INTO order_items (order_id, product_name, quantity, amount)
		VALUES ($1, $2, 2, 10.50)
		RETURNING id
	`, orderID, name).Scan(&id)
	s.Require().NoError(err)
	return id
}

func ptr(v float64) *float64 { return &v }

func (s *FulfillmentRepositorySuite) TestLockOrder() {
	ctx := context.Background()
	customer := s.createUser(domain.RoleCustomer, nil, nil)
	vendor := s.createUser(domain.RoleVendor, ptr(1), ptr(2))
	orderID := s.createOrder(customer, vendor, domain.OrderPlaced, 0, "0042")

	err := s.repo.WithTx(ctx, func(tx fulfillmenttx.Repository) error {
		o, err := tx.LockOrder(ctx, orderID)
		s.Require().NoError(err)
		s.Require().NotNil(o)
		s.Equal(customer, o.CustomerID)
		s.Equal(vendor, o.VendorID)
		s.Equal(domain.OrderPlaced, o.Status)
		s.Equal("0042", o.ConfirmationCode)
		s.InDelta(1.5, o.Location.Lat, 1e-9)

		missing, err := tx.LockOrder(ctx, orderID+100)
		s.Require().NoError(err)
		s.Nil(missing)

		byVendor, err := tx.LockVendorOrder(ctx, orderID, vendor)
		s.Require().NoError(err)
		s.NotNil(byVendor)

		otherVendor, err := tx.LockVendorOrder(ctx, orderID, customer)
		s.Require().NoError(err)
		s.Nil(otherVendor)
		return nil
	})
	s.Require().NoError(err)
}

func (s *FulfillmentRepositorySuite) TestUpdatePendingItems_OnlyOnce() {
	ctx := context.Background()
	customer := s.createUser(domain.RoleCustomer, nil, nil)
	vendor := s.createUser(domain.RoleVendor, nil, nil)
	orderID := s.createOrder(customer, vendor, domain.OrderPlaced, 0, "")
	first := s.createItem(orderID, "bread")
	second := s.createItem(orderID, "milk")

	err := s.repo.WithTx(ctx, func(tx fulfillmenttx.Repository) error {
		n, err := tx.UpdatePendingItems(ctx, orderID, []int64{first}, domain.ItemRejected, "out of stock")
		s.Require().NoError(err)
		s.EqualValues(1, n)

		n, err = tx.UpdatePendingItems(ctx, orderID, []int64{first}, domain.ItemAccepted, "")
		s.Require().NoError(err)
		s.EqualValues(0, n)

		statuses, err := tx.ItemStatuses(ctx, orderID)
		s.Require().NoError(err)
		s.Equal(map[int64]domain.ItemStatus{
			first:  domain.ItemRejected,
			second: domain.ItemPending,
		}, statuses)

		return tx.SetOrderStatus(ctx, orderID, domain.OrderRejected)
	})
	s.Require().NoError(err)

	var (
		note   string
		status int16
	)
	s.Require().NoError(tcPool.QueryRow(ctx, `SELECT vendor_notes FROM order_items WHERE id = $1`, first).Scan(&note))
	s.Equal("out of stock", note)
	s.Require().NoError(tcPool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&status))
	s.EqualValues(domain.OrderRejected, status)
}

func (s *FulfillmentRepositorySuite) TestWithTx_RollbackOnError() {
	ctx := context.Background()
	customer := s.createUser(domain.RoleCustomer, nil, nil)
	vendor := s.createUser(domain.RoleVendor, nil, nil)
	orderID := s.createOrder(customer, vendor, domain.OrderPlaced, 0, "")

	boom := errors.New("boom")
	err := s.repo.WithTx(ctx, func(tx fulfillmenttx.Repository) error {
		s.Require().NoError(tx.SetOrderStatus(ctx, orderID, domain.OrderAccepted))
		return boom
	})
	s.Require().ErrorIs(err, boom)

	var status int16
	s.Require().NoError(tcPool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&status))
	s.EqualValues(domain.OrderPlaced, status)
}

type retryCount struct{ n int }

func (c *retryCount) TxRetry() { c.n++ }

func (s *FulfillmentRepositorySuite) retryingRepo() (*repository.FulfillmentRepo, *retryCount) {
	c := &retryCount{}
	r := repository.NewFulfillmentRepo(tcPool, repository.TxOptions{
		Isolation:   "serializable",
		MaxAttempts: 3,
		RetryDelay:  time.Millisecond,
	}, c)
	return r, c
}

func (s *FulfillmentRepositorySuite) TestWithTx_RetriesSerializationFailure() {
	ctx := context.Background()
	customer := s.createUser(domain.RoleCustomer, nil, nil)
	vendor := s.createUser(domain.RoleVendor, nil, nil)
	orderID := s.createOrder(customer, vendor, domain.OrderPlaced, 0, "")
	repo, retries := s.retryingRepo()

	calls := 0
	err := repo.WithTx(ctx, func(tx fulfillmenttx.Repository) error {
		calls++
		if calls == 1 {
			s.Require().NoError(tx.SetOrderStatus(ctx, orderID, domain.OrderAccepted))
			return &pgconn.PgError{Code: pgerrcode.SerializationFailure}
		}
		return tx.SetOrderStatus(ctx, orderID, domain.OrderRejected)
	})
	s.Require().NoError(err)
	s.Equal(2, calls)
	s.Equal(1, retries.n)

	var status int16
	s.Require().NoError(tcPool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&status))
	s.EqualValues(domain.OrderRejected, status)
}

func (s *FulfillmentRepositorySuite) TestWithTx_NonRetryableRunsOnce() {
	repo, retries := s.retryingRepo()

	boom := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	calls := 0
	err := repo.WithTx(context.Background(), func(fulfillmenttx.Repository) error {
		calls++
		return boom
	})
	s.Require().ErrorIs(err, boom)
	s.Equal(1, calls)
	s.Equal(0, retries.n)
}

func (s *FulfillmentRepositorySuite) TestWithTx_GivesUpAfterMaxAttempts() {
	repo, retries := s.retryingRepo()

	calls := 0
	err := repo.WithTx(context.Background(), func(fulfillmenttx.Repository) error {
		calls++
		return &pgconn.PgError{Code: pgerrcode.DeadlockDetected}
	})
	s.Require().True(repository.IsRetryable(err))
	s.Equal(3, calls)
	s.Equal(2, retries.n)
}

func (s *FulfillmentRepositorySuite) TestWithTx_CanceledContextStopsRetry() {
	ctx, cancel := context.WithCancel(context.Background())
	repo, retries := s.retryingRepo()

	calls := 0
	err := repo.WithTx(ctx, func(fulfillmenttx.Repository) error {
		calls++
		cancel()
		return &pgconn.PgError{Code: pgerrcode.SerializationFailure}
	})
	s.Require().Error(err)
	s.Equal(1, calls)
	s.Equal(1, retries.n)
}

func (s *FulfillmentRepositorySuite) TestEligibleCouriers() {
	ctx := context.Background()
	customer := s.createUser(domain.RoleCustomer, ptr(0), ptr(0))
	vendor := s.createUser(domain.RoleVendor, ptr(0), ptr(0))
	free := s.createUser(domain.RoleCourier, ptr(1), ptr(1))
	busy := s.createUser(domain.RoleCourier, ptr(2), ptr(2))
	done := s.createUser(domain.RoleCourier, ptr(3), ptr(3))
	_ = s.createUser(domain.RoleCourier, nil, nil)

	s.createOrder(customer, vendor, domain.OrderInTransit, busy, "")
	s.createOrder(customer, vendor, domain.OrderDelivered, done, "")

	err := s.repo.WithTx(ctx, func(tx fulfillmenttx.Repository) error {
		couriers, err := tx.EligibleCouriers(ctx)
		s.Require().NoError(err)

		var ids []int64
		for _, c := range couriers {
			ids = append(ids, c.CourierID)
		}
		s.Equal([]int64{free, done}, ids)

		u, err := tx.GetUser(ctx, vendor)
		s.Require().NoError(err)
		s.True(u.HasCoords)
		s.Equal(domain.RoleVendor, u.Role)

		missing, err := tx.GetUser(ctx, vendor+100)
		s.Require().NoError(err)
		s.Nil(missing)
		return nil
	})
	s.Require().NoError(err)
}

func (s *FulfillmentRepositorySuite) TestOffers_Replace() {
	ctx := context.Background()
	customer := s.createUser(domain.RoleCustomer, nil, nil)
	vendor := s.createUser(domain.RoleVendor, nil, nil)
	courier := s.createUser(domain.RoleCourier, ptr(1), ptr(1))
	orderID := s.createOrder(customer, vendor, domain.OrderAccepted, 0, "")

	for i := 0; i < 2; i++ {
		err := s.repo.WithTx(ctx, func(tx fulfillmenttx.Repository) error {
			if err := tx.DeleteOffers(ctx, orderID); err != nil {
				return err
			}
			return tx.InsertOffer(ctx, &domain.Offer{
				OrderID:            orderID,
				CourierID:          courier,
				VendorToCourierKm:  1.2,
				VendorToCustomerKm: 3.4,
				CreatedAt:          time.Now(),
			})
		})
		s.Require().NoError(err)
	}

	var n int
	s.Require().NoError(tcPool.QueryRow(ctx, `SELECT count(*) FROM delivery_offers WHERE order_id = $1`, orderID).Scan(&n))
	s.Equal(1, n)
}

func (s *FulfillmentRepositorySuite) TestAppendNotification() {
	ctx := context.Background()

	n := &domain.Notification{UserID: 7, Title: domain.TitleVendorAccepted, CreatedAt: time.Now()}
	err := s.repo.WithTx(ctx, func(tx fulfillmenttx.Repository) error {
		return tx.AppendNotification(ctx, n)
	})
	s.Require().NoError(err)
	s.Positive(n.ID)

	var read bool
	s.Require().NoError(tcPool.QueryRow(ctx, `SELECT is_read FROM notifications WHERE id = $1`, n.ID).Scan(&read))
	s.False(read)
}

func (s *FulfillmentRepositorySuite) TestAppendNotification_GeneratedIDFallback() {
	ctx := context.Background()

	_, err := tcPool.Exec(ctx, `INSERT INTO notifications (id, user_id, title) VALUES (41, 1, 'seed')`)
	s.Require().NoError(err)
	_, err = tcPool.Exec(ctx, `ALTER TABLE notifications ALTER COLUMN id DROP DEFAULT`)
	s.Require().NoError(err)
	defer func() {
		_, err := tcPool.Exec(ctx, `ALTER TABLE notifications ALTER COLUMN id SET DEFAULT nextval('notifications_id_seq')`)
		s.Require().NoError(err)
	}()

	customer := s.createUser(domain.RoleCustomer, nil, nil)
	vendor := s.createUser(domain.RoleVendor, nil, nil)
	orderID := s.createOrder(customer, vendor, domain.OrderPlaced, 0, "")

	n := &domain.Notification{UserID: customer, Title: domain.TitleVendorRejected, CreatedAt: time.Now()}
	err = s.repo.WithTx(ctx, func(tx fulfillmenttx.Repository) error {
		if err := tx.SetOrderStatus(ctx, orderID, domain.OrderRejected); err != nil {
			return err
		}
		err := tx.AppendNotification(ctx, n)
		s.Require().ErrorIs(err, domain.ErrNotificationIDRequired)
		return tx.AppendNotificationWithGeneratedID(ctx, n)
	})
	s.Require().NoError(err)
	s.EqualValues(42, n.ID)

	var status int16
	s.Require().NoError(tcPool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&status))
	s.EqualValues(domain.OrderRejected, status)
}

func (s *FulfillmentRepositorySuite) TestListVendorOrders() {
	ctx := context.Background()
	customer := s.createUser(domain.RoleCustomer, nil, nil)
	vendor := s.createUser(domain.RoleVendor, nil, nil)
	older := s.createOrder(customer, vendor, domain.OrderPlaced, 0, "")
	newer := s.createOrder(customer, vendor, domain.OrderAccepted, 0, "")
	_, err := tcPool.Exec(ctx, `UPDATE orders SET created_at = now() - interval '1 hour' WHERE id = $1`, older)
	s.Require().NoError(err)

	unpaid := s.createOrder(customer, vendor, domain.OrderPlaced, 0, "")
	_, err = tcPool.Exec(ctx, `UPDATE orders SET payment_status = 'pending' WHERE id = $1`, unpaid)
	s.Require().NoError(err)

	itemID := s.createItem(newer, "cheese")

	orders, err := repository.NewOrderRepo(tcPool).ListVendorOrders(ctx, vendor)
	s.Require().NoError(err)
	s.Require().Len(orders, 2)
	s.Equal(newer, orders[0].ID)
	s.Equal(older, orders[1].ID)
	s.Equal("First", orders[0].CustomerFirstName)
	s.Require().Len(orders[0].Items, 1)
	s.Equal(itemID, orders[0].Items[0].ID)
	s.Equal("10.5", orders[0].Items[0].Amount.String())
	s.Empty(orders[1].Items)
}
