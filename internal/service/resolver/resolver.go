package resolver

import (
	"context"
	"time"

	"deligo-fulfillment/internal/apperr"
	"deligo-fulfillment/internal/domain"
	"deligo-fulfillment/internal/logx"
	"deligo-fulfillment/internal/ports/fulfillmenttx"
	"deligo-fulfillment/internal/service"
)

// Service applies vendor decisions to order items and derives the order status.
type Service struct {
	repo             TxRunner
	selector         CandidateSelector
	notifier         Notifier
	events           service.EventPublisher
	metrics          service.WorkflowMetrics
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// Deps groups the collaborators of Service.
type Deps struct {
	Repo     TxRunner
	Selector CandidateSelector
	Notifier Notifier
	Events   service.EventPublisher
	Metrics  service.WorkflowMetrics
	Logger   logx.Logger
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// NewService creates a new resolver Service.
func NewService(d Deps, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if d.Events == nil {
		d.Events = service.NopPublisher{}
	}
	if d.Metrics == nil {
		d.Metrics = service.NopMetrics{}
	}
	if d.Logger == nil {
		d.Logger = logx.Nop()
	}
	return &Service{
		repo:             d.Repo,
		selector:         d.Selector,
		notifier:         d.Notifier,
		events:           d.Events,
		metrics:          d.Metrics,
		operationTimeout: timeout,
		logger:           d.Logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// ResolveItem applies action to a single item of the order.
func (s *Service) ResolveItem(ctx context.Context, orderID, itemID int64, action domain.Action, reason string) (domain.ResolveResult, error) {
	return s.ResolveItems(ctx, domain.ItemDecision{
		OrderID: orderID,
		ItemIDs: []int64{itemID},
		Action:  action,
		Reason:  reason,
	})
}

// ResolveItems applies one decision to several items of the order and recomputes the
// order status from all of its items. When the order becomes accepted the nearest couriers
// are selected and returned.
func (s *Service) ResolveItems(ctx context.Context, d domain.ItemDecision) (domain.ResolveResult, error) {
	ids, err := validateDecision(d)
	if err != nil {
		return domain.ResolveResult{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		result     domain.ResolveResult
		customerID int64
		outcome    string
	)

	err = s.repo.WithTx(ctx, func(tx fulfillmenttx.Repository) error {
		result = domain.ResolveResult{OrderID: d.OrderID}
		outcome = ""

		order, err := tx.LockOrder(ctx, d.OrderID)
		if err != nil {
			return apperr.Store("lock order", err)
		}
		if order == nil {
			return apperr.ErrNotFound
		}
		customerID = order.CustomerID

		statuses, err := tx.ItemStatuses(ctx, order.ID)
		if err != nil {
			return apperr.Store("item statuses", err)
		}
		for _, id := range ids {
			st, ok := statuses[id]
			if !ok {
				return apperr.ErrNotFound
			}
			if st.Decided() {
				return apperr.ErrConflict
			}
		}

		target := d.Action.ItemStatus()
		n, err := tx.UpdatePendingItems(ctx, order.ID, ids, target, d.Note())
		if err != nil {
			return apperr.Store("update items", err)
		}
		if n != int64(len(ids)) {
			return apperr.ErrConflict
		}
		for _, id := range ids {
			statuses[id] = target
		}

		next, changed := deriveStatus(statuses, d.Action)
		if !changed {
			return nil
		}
		if err := tx.SetOrderStatus(ctx, order.ID, next); err != nil {
			return apperr.Store("set order status", err)
		}
		order.Status = next
		result.Status = next
		result.Changed = true

		if title, ok := domain.StatusTitle(next); ok {
			outcome = s.notifier.Emit(ctx, tx, order.CustomerID, title)
		}

		if next == domain.OrderAccepted {
			candidates, err := s.selector.Select(ctx, tx, order)
			if err != nil {
				return err
			}
			result.Candidates = candidates
		}
		return nil
	})
	if err != nil {
		return domain.ResolveResult{}, apperr.Store("tx", err)
	}

	// метрики только после коммита, попытки ретрая не считаются
	if result.Changed {
		s.metrics.Transition(result.Status)
		if outcome != "" {
			s.metrics.Notification(outcome)
		}
		if result.Status == domain.OrderAccepted {
			s.metrics.Candidates(len(result.Candidates))
		}
		s.publish(ctx, result, customerID)
	}

	s.logger.Info("order items resolved",
		logx.String("event", "order_items_resolved"),
		logx.Int64("order_id", d.OrderID),
		logx.Int("items", len(ids)),
		logx.String("action", string(d.Action)),
		logx.Any("changed", result.Changed),
		logx.Int("candidates", len(result.Candidates)),
	)

	return result, nil
}

func (s *Service) publish(ctx context.Context, r domain.ResolveResult, customerID int64) {
	e := domain.OrderEvent{
		OrderID:    r.OrderID,
		Status:     r.Status,
		CustomerID: customerID,
		OccurredAt: s.now(),
	}
	for _, c := range r.Candidates {
		e.Candidates = append(e.Candidates, c.CourierID)
	}
	if err := s.events.PublishOrderEvent(ctx, e); err != nil {
		s.metrics.PublishFailed()
		s.logger.Error("publish order event",
			logx.Int64("order_id", r.OrderID),
			logx.Err(err),
		)
	}
}

// validateDecision checks the decision and returns its item ids without duplicates.
func validateDecision(d domain.ItemDecision) ([]int64, error) {
	if d.OrderID <= 0 || len(d.ItemIDs) == 0 || !d.Action.Valid() {
		return nil, apperr.ErrInvalid
	}
	seen := make(map[int64]struct{}, len(d.ItemIDs))
	ids := make([]int64, 0, len(d.ItemIDs))
	for _, id := range d.ItemIDs {
		if id <= 0 {
			return nil, apperr.ErrInvalid
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// deriveStatus computes the aggregate order status from every item of the order.
// A single item order follows the action directly. Larger orders change only once
// no item is pending.
func deriveStatus(items map[int64]domain.ItemStatus, action domain.Action) (domain.OrderStatus, bool) {
	if len(items) == 1 {
		if action == domain.ActionAccept {
			return domain.OrderAccepted, true
		}
		return domain.OrderRejected, true
	}

	var pending, accepted int
	for _, st := range items {
		switch st {
		case domain.ItemPending:
			pending++
		case domain.ItemAccepted:
			accepted++
		}
	}
	switch {
	case pending > 0:
		return 0, false
	case accepted > 0:
		return domain.OrderAccepted, true
	default:
		return domain.OrderRejected, true
	}
}
