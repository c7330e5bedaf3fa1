package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"deligo-fulfillment/internal/logx"
)

// Identity is the authenticated caller.
type Identity struct {
	UserID string
	Role   string
}

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the caller identity attached by the gate.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// UserID returns the caller id attached by the gate.
func UserID(ctx context.Context) (string, bool) {
	id, ok := FromContext(ctx)
	if !ok || id.UserID == "" {
		return "", false
	}
	return id.UserID, true
}

// Gate verifies HS256 bearer tokens.
type Gate struct {
	secret []byte
	logger logx.Logger
}

// NewGate creates a new Gate. An empty secret disables verification.
func NewGate(secret string, logger logx.Logger) *Gate {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Gate{secret: []byte(secret), logger: logger}
}

// Enabled reports whether tokens are verified.
func (g *Gate) Enabled() bool {
	return len(g.secret) > 0
}

// Handler returns chi-style middleware. A request without a token gets 403,
// an invalid or expired token gets 401.
func (g *Gate) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !g.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if header == "" {
				deny(w, http.StatusForbidden, "No token provided.")
				return
			}

			id, err := g.verify(bearer(header))
			if err != nil {
				g.logger.Debug("token rejected",
					logx.String("path", r.URL.Path),
					logx.Err(err),
				)
				deny(w, http.StatusUnauthorized, "Unauthorized! Invalid or expired token.")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func (g *Gate) verify(raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, fmt.Errorf("empty token")
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return g.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, err
	}

	id := Identity{UserID: subject(claims)}
	if role, ok := claims["role"].(string); ok {
		id.Role = role
	}
	return id, nil
}

// subject reads "sub" and falls back to a numeric or string "id" claim.
func subject(c jwt.MapClaims) string {
	if sub, err := c.GetSubject(); err == nil && sub != "" {
		return sub
	}
	switch v := c["id"].(type) {
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case string:
		return v
	default:
		return ""
	}
}

func bearer(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return header
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, `{"status":false,"message":"`+msg+`"}`)
}
