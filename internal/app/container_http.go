package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"deligo-fulfillment/internal/config"
	"deligo-fulfillment/internal/http/admin"
	"deligo-fulfillment/internal/http/handlers"
	"deligo-fulfillment/internal/http/middleware"
	"deligo-fulfillment/internal/http/middleware/auth"
	"deligo-fulfillment/internal/http/middleware/ratelimit"
	"deligo-fulfillment/internal/http/router"
	"deligo-fulfillment/internal/logx"
	"deligo-fulfillment/internal/service/orders"
	"deligo-fulfillment/internal/service/pickup"
	"deligo-fulfillment/internal/service/resolver"
)

type routerIn struct {
	dig.In

	Cfg       *config.Config
	Logger    logx.Logger
	Base      *handlers.Handlers
	Orders    *handlers.OrderHandler
	Gate      *auth.Gate
	RateLimit *ratelimit.Middleware
	Metrics   *middleware.HTTPMetrics
}

func newRouter(in routerIn) http.Handler {
	if !in.Gate.Enabled() {
		in.Logger.Warn("JWT_SECRET is empty, bearer token check disabled")
	}
	return router.New(in.Base, in.Orders, router.Middlewares{
		Observability: middleware.Observability(in.Logger, in.Metrics),
		Auth:          in.Gate.Handler(),
		RateLimit:     in.RateLimit.Handler(),
		Timeout:       in.Cfg.Workflow.OperationTimeout + 2*time.Second,
	})
}

func newOrderHandler(logger logx.Logger, r *resolver.Service, p *pickup.Service, o *orders.Service) *handlers.OrderHandler {
	return handlers.NewOrderHandler(logger, r, p, o)
}

type serversOut struct {
	dig.Out

	Main  *http.Server
	Admin *http.Server `name:"admin_server"`
}

func newServers(cfg *config.Config, mux http.Handler, g prometheus.Gatherer) serversOut {
	return serversOut{
		Main: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		Admin: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.AdminPort),
			Handler:           admin.Handler(admin.Config{User: cfg.Pprof.User, Pass: cfg.Pprof.Pass}, g),
			ReadHeaderTimeout: 5 * time.Second,
			// profile по умолчанию снимается 30s
			WriteTimeout: 65 * time.Second,
		},
	}
}

func registerHTTP(container *dig.Container) error {
	return provideAll(container,
		handlers.New,
		newOrderHandler,
		func(cfg *config.Config, logger logx.Logger) *auth.Gate {
			return auth.NewGate(cfg.Auth.JWTSecret, logger)
		},
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		newRouter,
		newServers,
	)
}
