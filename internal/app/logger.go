package app

import (
	"io"
	"log/slog"

	"github.com/vk/depsgraph/internal/config"
)

// newLogger builds an isolated logger from the log section of the config.
// It never touches slog's global default. Unknown levels fall back to info;
// config validation rejects them before this point.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
