package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"deligo-fulfillment/internal/http/handlers"
)

// Middlewares holds the optional middleware chain. Nil entries are skipped.
type Middlewares struct {
	Observability func(http.Handler) http.Handler
	Auth          func(http.Handler) http.Handler
	RateLimit     func(http.Handler) http.Handler
	// Timeout bounds each request. Zero means 5s.
	Timeout time.Duration
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(h *handlers.Handlers, o *handlers.OrderHandler, mw Middlewares) http.Handler {
	r := chi.NewRouter()

	timeout := mw.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	use(r, mw.Observability)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/ping", h.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(h.HealthcheckHead))

	r.Group(func(r chi.Router) {
		// auth идет первым, чтобы лимит считался по пользователю
		use(r, mw.Auth)
		use(r, mw.RateLimit)

		r.Put("/update-order-status", o.UpdateOrderStatus)
		r.Put("/multi-update-status", o.MultiUpdateStatus)
		r.Put("/verify-delivery-otp", o.VerifyDeliveryOTP)
		r.Get("/orders", o.ListOrders)
	})

	r.NotFound(http.HandlerFunc(h.NotFound))
	r.MethodNotAllowed(http.HandlerFunc(h.MethodNotAllowed))

	return r
}

func use(r chi.Router, mw func(http.Handler) http.Handler) {
	if mw != nil {
		r.Use(mw)
	}
}
