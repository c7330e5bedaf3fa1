package pickup

import (
	"context"
	"strings"
	"time"

	"deligo-fulfillment/internal/apperr"
	"deligo-fulfillment/internal/domain"
	"deligo-fulfillment/internal/logx"
	"deligo-fulfillment/internal/ports/fulfillmenttx"
	"deligo-fulfillment/internal/service"
)

// Service confirms that a courier collected an order from the vendor.
type Service struct {
	repo             TxRunner
	notifier         Notifier
	events           service.EventPublisher
	metrics          service.WorkflowMetrics
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// NewService creates a new pickup Service.
func NewService(
	r TxRunner,
	n Notifier,
	events service.EventPublisher,
	m service.WorkflowMetrics,
	timeout time.Duration,
	logger logx.Logger,
) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if events == nil {
		events = service.NopPublisher{}
	}
	if m == nil {
		m = service.NopMetrics{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		repo:             r,
		notifier:         n,
		events:           events,
		metrics:          m,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// Confirm moves the order to in transit when the code matches the one stored on the order.
// Confirming an order twice is allowed.
func (s *Service) Confirm(ctx context.Context, c domain.PickupConfirmation) error {
	if c.OrderID <= 0 || c.VendorID <= 0 || strings.TrimSpace(c.Code) == "" {
		return apperr.ErrInvalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		customerID int64
		outcome    string
	)
	err := s.repo.WithTx(ctx, func(tx fulfillmenttx.Repository) error {
		outcome = ""
		order, err := tx.LockVendorOrder(ctx, c.OrderID, c.VendorID)
		if err != nil {
			return apperr.Store("lock order", err)
		}
		if order == nil {
			return apperr.ErrNotFound
		}
		if !codesMatch(order.ConfirmationCode, c.Code) {
			return apperr.ErrInvalidCode
		}

		if err := tx.SetOrderStatus(ctx, order.ID, domain.OrderInTransit); err != nil {
			return apperr.Store("set order status", err)
		}
		customerID = order.CustomerID
		outcome = s.notifier.Emit(ctx, tx, order.CustomerID, domain.TitleCourierPickedUp)
		return nil
	})
	if err != nil {
		return apperr.Store("tx", err)
	}

	s.metrics.Transition(domain.OrderInTransit)
	s.metrics.Notification(outcome)
	if err := s.events.PublishOrderEvent(ctx, domain.OrderEvent{
		OrderID:    c.OrderID,
		Status:     domain.OrderInTransit,
		CustomerID: customerID,
		OccurredAt: s.now(),
	}); err != nil {
		s.metrics.PublishFailed()
		s.logger.Error("publish order event",
			logx.Int64("order_id", c.OrderID),
			logx.Err(err),
		)
	}

	s.logger.Info("order picked up",
		logx.String("event", "order_picked_up"),
		logx.Int64("order_id", c.OrderID),
		logx.Int64("vendor_id", c.VendorID),
	)
	return nil
}
