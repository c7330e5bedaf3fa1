package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"deligo-fulfillment/internal/domain"
)

// AppendNotification - insert a notification with a store assigned id.
// Runs in a savepoint so a failed insert leaves the surrounding transaction usable.
func (r *TxRepo) AppendNotification(ctx context.Context, n *domain.Notification) error {
	err := r.savepoint(ctx, func(sp pgx.Tx) error {
		return sp.QueryRow(ctx, `
            INSERT INTO notifications (user_id, title, is_read, created_at, modified_at)
            VALUES ($1, $2, FALSE, $3, $3)
            RETURNING id
        `, n.UserID, n.Title, n.CreatedAt).Scan(&n.ID)
	})
	if err != nil {
		if isMissingID(err) {
			return fmt.Errorf("insert notification: %w", domain.ErrNotificationIDRequired)
		}
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// AppendNotificationWithGeneratedID - insert a notification with id = max(id) + 1.
func (r *TxRepo) AppendNotificationWithGeneratedID(ctx context.Context, n *domain.Notification) error {
	err := r.savepoint(ctx, func(sp pgx.Tx) error {
		return sp.QueryRow(ctx, `
            INSERT INTO notifications (id, user_id, title, is_read, created_at, modified_at)
            SELECT COALESCE(MAX(id), 0) + 1, $1, $2, FALSE, $3, $3
            FROM notifications
            RETURNING id
        `, n.UserID, n.Title, n.CreatedAt).Scan(&n.ID)
	})
	if err != nil {
		return fmt.Errorf("insert notification with generated id: %w", err)
	}
	return nil
}

func (r *TxRepo) savepoint(ctx context.Context, fn func(sp pgx.Tx) error) error {
	sp, err := r.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("savepoint: %w", err)
	}
	if err := fn(sp); err != nil {
		_ = sp.Rollback(ctx)
		return err
	}
	return sp.Commit(ctx)
}
