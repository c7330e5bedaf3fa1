package logx

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAdapter_WritesTypedFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapAdapter(zap.New(core))

	l.With(Int64("order_id", 42)).Info("order status changed",
		String("status", "accepted"),
		Int("candidates", 3),
		Float64("distance_km", 1.5),
		Duration("took", time.Second),
		Err(errors.New("boom")),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "order status changed", entries[0].Message)

	ctx := entries[0].ContextMap()
	require.Equal(t, int64(42), ctx["order_id"])
	require.Equal(t, "accepted", ctx["status"])
	require.Equal(t, int64(3), ctx["candidates"])
	require.Equal(t, 1.5, ctx["distance_km"])
	require.Equal(t, "boom", ctx["err"])
}

func TestZapAdapter_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	l := NewZapAdapter(zap.New(core))

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	require.Equal(t, 2, logs.Len())
	require.NoError(t, NewZapAdapter(nil).Sync())
}

func TestNewZapProduction_InvalidLevel(t *testing.T) {
	_, err := NewZapProduction("loud")
	require.Error(t, err)
}
