package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"deligo-fulfillment/internal/ports/fulfillmenttx"
)

type retryCounter interface {
	TxRetry()
}

// TxOptions configures FulfillmentRepo transactions.
type TxOptions struct {
	Isolation   string
	MaxAttempts int
	// RetryDelay is the base backoff between attempts.
	RetryDelay time.Duration
}

// FulfillmentRepo runs the fulfillment workflow transactions.
type FulfillmentRepo struct {
	db      *pgxpool.Pool
	opts    pgx.TxOptions
	retry   TxOptions
	retries retryCounter
	sleep   func(context.Context, time.Duration) bool
}

// NewFulfillmentRepo creates a new FulfillmentRepo.
func NewFulfillmentRepo(db *pgxpool.Pool, o TxOptions, retries retryCounter) *FulfillmentRepo {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 1
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 20 * time.Millisecond
	}
	return &FulfillmentRepo{
		db:      db,
		opts:    pgx.TxOptions{IsoLevel: isoLevel(o.Isolation)},
		retry:   o,
		retries: retries,
		sleep:   sleepCtx,
	}
}

func isoLevel(name string) pgx.TxIsoLevel {
	switch name {
	case "read committed":
		return pgx.ReadCommitted
	case "repeatable read":
		return pgx.RepeatableRead
	default:
		return pgx.Serializable
	}
}

// WithTx opens a transaction and executes fn within it. Serialization failures and
// deadlocks rerun fn in a fresh transaction up to MaxAttempts times.
func (r *FulfillmentRepo) WithTx(ctx context.Context, fn func(tx fulfillmenttx.Repository) error) error {
	var err error
	for attempt := 1; attempt <= r.retry.MaxAttempts; attempt++ {
		err = r.runTx(ctx, fn)
		if err == nil || !IsRetryable(err) || attempt == r.retry.MaxAttempts {
			return err
		}
		if r.retries != nil {
			r.retries.TxRetry()
		}
		if !r.sleep(ctx, r.retry.RetryDelay*time.Duration(attempt)) {
			return err
		}
	}
	return err
}

func (r *FulfillmentRepo) runTx(ctx context.Context, fn func(tx fulfillmenttx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, r.opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	// отменяем в случае паники
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(&TxRepo{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// TxRepo represents transaction repository.
type TxRepo struct {
	tx pgx.Tx
}

var _ fulfillmenttx.Repository = (*TxRepo)(nil)
