package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"deligo-fulfillment/internal/logx"
)

type stubLimiter struct {
	allow bool
	keys  *[]string
}

func (s stubLimiter) Allow(key string) bool {
	if s.keys != nil {
		*s.keys = append(*s.keys, key)
	}
	return s.allow
}

func TestMiddleware_Allows_RequestPassesToNext(t *testing.T) {
	t.Parallel()

	nextCalled := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled++
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var keys []string
	m := New(logx.Nop(), nil, stubLimiter{allow: true, keys: &keys})
	h := m.Handler()(next)

	r := httptest.NewRequest(http.MethodGet, "http://example/test", nil)
	r.RemoteAddr = "1.2.3.4:5678"
	w := httptest.NewRecorder()

	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code, "expected 200")
	require.Equal(t, 1, nextCalled, "expected next called once")
	require.Equal(t, []string{"1.2.3.4"}, keys)
}

func TestMiddleware_Blocks_Returns429AndIncrementsCounter(t *testing.T) {
	t.Parallel()

	nextCalled := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled++
		w.WriteHeader(http.StatusOK)
	})

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ratelimit_denied_total",
		Help: "denied requests",
	})

	m := New(logx.Nop(), counter, stubLimiter{allow: false})
	h := m.Handler()(next)

	r := httptest.NewRequest(http.MethodGet, "http://example/test", nil)
	r.RemoteAddr = "1.2.3.4:5678"
	w := httptest.NewRecorder()

	h.ServeHTTP(w, r)

	require.Equal(t, 0, nextCalled, "expected next not called")
	require.Equal(t, http.StatusTooManyRequests, w.Code, "expected 429")
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.Equal(t, "1", w.Header().Get("Retry-After"))
	require.JSONEq(t, `{"status":false,"message":"too many requests"}`, w.Body.String())
	require.Equal(t, float64(1), testutil.ToFloat64(counter), "expected counter=1")
}

type userKey struct{}

func TestMiddleware_ByUserKey(t *testing.T) {
	t.Parallel()

	userID := func(ctx context.Context) (string, bool) {
		id, ok := ctx.Value(userKey{}).(string)
		return id, ok
	}

	var keys []string
	m := New(nil, nil, stubLimiter{allow: true, keys: &keys}).WithKey(ByUser(userID))
	h := m.Handler()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	anon := httptest.NewRequest(http.MethodGet, "http://example/test", nil)
	anon.RemoteAddr = "5.6.7.8:1"
	h.ServeHTTP(httptest.NewRecorder(), anon)

	authed := anon.WithContext(context.WithValue(anon.Context(), userKey{}, "42"))
	h.ServeHTTP(httptest.NewRecorder(), authed)

	require.Equal(t, []string{"5.6.7.8", "user:42"}, keys)
}
