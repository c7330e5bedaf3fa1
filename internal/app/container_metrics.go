package app

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/dig"

	"deligo-fulfillment/internal/http/middleware"
	"deligo-fulfillment/internal/metrics"
)

func newRegistry() (*prometheus.Registry, prometheus.Gatherer) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, reg
}

type metricsOut struct {
	dig.Out

	RateLimitExceededTotal prometheus.Counter `name:"rate_limit_exceeded_total"`
	Workflow               *metrics.Workflow
	HTTP                   *middleware.HTTPMetrics
}

func provideMetrics(reg *prometheus.Registry) (metricsOut, error) {
	var out metricsOut

	rl, err := registerCounter(reg, metrics.NewRateLimitExceededTotal())
	if err != nil {
		return out, fmt.Errorf("register rate_limit_exceeded_total: %w", err)
	}
	out.RateLimitExceededTotal = rl

	if out.Workflow, err = metrics.NewWorkflow(reg); err != nil {
		return out, err
	}
	if out.HTTP, err = middleware.NewHTTPMetrics(reg); err != nil {
		return out, err
	}
	return out, nil
}

// registerCounter returns the already registered collector when there is one.
func registerCounter(reg prometheus.Registerer, c prometheus.Counter) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}
