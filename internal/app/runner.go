package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"
	"golang.org/x/sync/errgroup"

	"deligo-fulfillment/internal/logx"
	"deligo-fulfillment/internal/transport/kafka"
)

const shutdownTimeout = 15 * time.Second

// Runner runs the service from a built container.
type Runner struct {
	runFn func(*dig.Container) error
}

// NewRunner returns a Runner with the default run function.
func NewRunner() *Runner {
	return &Runner{runFn: run}
}

// MustRun starts the HTTP servers using the provided DI container
func MustRun(container *dig.Container) {
	NewRunner().MustRun(container)
}

// MustRun runs the service and exits the process on an unexpected error.
func (r *Runner) MustRun(container *dig.Container) {
	logger := containerLogger(container)

	err := r.runFn(container)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("startup aborted: startup timeout exceeded")
	default:
		logger.Error("run error", logx.Err(err))
		_ = logger.Sync()
		log.Fatalf("run error: %v", err)
	}
	_ = logger.Sync()
}

func containerLogger(container *dig.Container) logx.Logger {
	var logger logx.Logger
	if err := container.Invoke(func(l logx.Logger) { logger = l }); err != nil || logger == nil {
		return logx.Nop()
	}
	return logger
}

type runIn struct {
	dig.In

	Ctx      context.Context
	Logger   logx.Logger
	Pool     *pgxpool.Pool
	Server   *http.Server
	Admin    *http.Server    `name:"admin_server" optional:"true"`
	Producer *kafka.Producer `optional:"true"`
}

func run(container *dig.Container) error {
	return container.Invoke(func(in runIn) error {
		g, gctx := errgroup.WithContext(in.Ctx)

		servers := []*http.Server{in.Server}
		if in.Admin != nil {
			servers = append(servers, in.Admin)
		}
		for _, srv := range servers {
			g.Go(func() error {
				return serve(srv, in.Logger)
			})
		}
		g.Go(func() error {
			<-gctx.Done()
			in.Logger.Info("shutting down service-fulfillment...")
			for _, srv := range servers {
				gracefulShutdown(srv, in.Logger, shutdownTimeout)
			}
			return nil
		})

		err := g.Wait()
		closeResources(in.Pool, in.Producer, in.Logger)
		if err != nil {
			return err
		}
		return in.Ctx.Err()
	})
}

func serve(srv *http.Server, logger logx.Logger) error {
	logger.Info("service-fulfillment listening", logx.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen %s: %w", srv.Addr, err)
	}
	return nil
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.String("addr", srv.Addr), logx.Err(err))
	}
}

func closeResources(pool *pgxpool.Pool, producer *kafka.Producer, logger logx.Logger) {
	if err := producer.Close(); err != nil {
		logger.Warn("kafka producer close error", logx.Err(err))
	}
	if pool != nil {
		pool.Close()
	}
}
