package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"deligo-fulfillment/internal/config"
	"deligo-fulfillment/internal/logx"
)

// NewLogger builds the service logger: zap JSON by default, slog text for local runs.
func NewLogger(cfg *config.Config) (logx.Logger, error) {
	if cfg.Log.Format == "text" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(strings.TrimSpace(cfg.Log.Level))); err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", cfg.Log.Level, err)
		}
		return logx.NewSlogText(os.Stdout, lvl), nil
	}
	return logx.NewZapProduction(cfg.Log.Level)
}
