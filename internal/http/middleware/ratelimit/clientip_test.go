package ratelimit

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	cases := []struct {
		remote string
		want   string
	}{
		{"10.0.0.7:5123", "10.0.0.7"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"not-a-hostport", "not-a-hostport"},
		{"", "unknown"},
	}
	for _, tc := range cases {
		r := httptest.NewRequest("GET", "http://example/orders", nil)
		r.RemoteAddr = tc.remote

		if got := clientIP(r); got != tc.want {
			t.Fatalf("clientIP(%q) = %q, want %q", tc.remote, got, tc.want)
		}
	}
}
