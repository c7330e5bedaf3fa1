package notify

import (
	"context"
	"errors"
	"time"

	"deligo-fulfillment/internal/domain"
	"deligo-fulfillment/internal/logx"
	"deligo-fulfillment/internal/ports/fulfillmenttx"
)

// Outcomes returned by Emit. Callers report them to metrics once the transaction commits.
const (
	OutcomeStored   = "stored"
	OutcomeFallback = "fallback"
	OutcomeFailed   = "failed"
)

// Emitter appends customer notifications inside the workflow transaction.
// A failed notification never fails the surrounding operation.
type Emitter struct {
	logger logx.Logger
	now    func() time.Time
}

// NewEmitter creates a new Emitter.
func NewEmitter(logger logx.Logger) *Emitter {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Emitter{
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Emit appends a notification for userID and returns its outcome.
// When the store cannot assign ids and also implements
// fulfillmenttx.GeneratedIDNotificationStore, the insert is retried once with a generated id.
func (e *Emitter) Emit(ctx context.Context, store fulfillmenttx.NotificationStore, userID int64, title string) string {
	now := e.now()
	n := &domain.Notification{
		UserID:     userID,
		Title:      title,
		CreatedAt:  now,
		ModifiedAt: now,
	}

	err := store.AppendNotification(ctx, n)
	if err == nil {
		return OutcomeStored
	}
	if !errors.Is(err, domain.ErrNotificationIDRequired) {
		return e.fail(userID, title, err)
	}

	gen, ok := store.(fulfillmenttx.GeneratedIDNotificationStore)
	if !ok {
		return e.fail(userID, title, err)
	}
	if err := gen.AppendNotificationWithGeneratedID(ctx, n); err != nil {
		return e.fail(userID, title, err)
	}

	e.logger.Warn("notification stored with generated id",
		logx.Int64("user_id", userID),
		logx.Int64("notification_id", n.ID),
	)
	return OutcomeFallback
}

func (e *Emitter) fail(userID int64, title string, err error) string {
	e.logger.Error("notification not stored",
		logx.Int64("user_id", userID),
		logx.String("title", title),
		logx.Err(err),
	)
	return OutcomeFailed
}
