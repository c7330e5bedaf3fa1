package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"deligo-fulfillment/internal/domain"
)

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// Workflow groups the order fulfillment metrics. A nil *Workflow records nothing.
type Workflow struct {
	transitions   *prometheus.CounterVec
	candidates    prometheus.Histogram
	notifications *prometheus.CounterVec
	txRetries     prometheus.Counter
	publishFailed prometheus.Counter
}

// NewWorkflow creates the workflow metrics and registers them in reg.
func NewWorkflow(reg prometheus.Registerer) (*Workflow, error) {
	w := &Workflow{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_status_transitions_total",
			Help: "Aggregate order status changes written by the workflow",
		}, []string{"status"}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "delivery_candidates_selected",
			Help:    "Number of couriers offered per accepted order",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 10},
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_emitted_total",
			Help: "Customer notifications by insert outcome",
		}, []string{"outcome"}),
		txRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "db_tx_retries_total",
			Help: "Transactions retried after serialization failures or deadlocks",
		}),
		publishFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "order_event_publish_failures_total",
			Help: "Order status events that could not be published",
		}),
	}
	for _, c := range []prometheus.Collector{w.transitions, w.candidates, w.notifications, w.txRetries, w.publishFailed} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register workflow metric: %w", err)
		}
	}
	return w, nil
}

// Transition counts an aggregate status change.
func (w *Workflow) Transition(s domain.OrderStatus) {
	if w == nil {
		return
	}
	w.transitions.WithLabelValues(s.String()).Inc()
}

// Candidates records the size of a selected candidate set.
func (w *Workflow) Candidates(n int) {
	if w == nil {
		return
	}
	w.candidates.Observe(float64(n))
}

// Notification counts a notification insert outcome: "stored", "fallback" or "failed".
func (w *Workflow) Notification(outcome string) {
	if w == nil {
		return
	}
	w.notifications.WithLabelValues(outcome).Inc()
}

// TxRetry counts a retried transaction.
func (w *Workflow) TxRetry() {
	if w == nil {
		return
	}
	w.txRetries.Inc()
}

// PublishFailed counts an order event that was not published.
func (w *Workflow) PublishFailed() {
	if w == nil {
		return
	}
	w.publishFailed.Inc()
}
