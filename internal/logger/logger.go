package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/personal-finance-ledger/internal/config"
)

// Component names attached to loggers with WithComponent
const (
	ComponentHTTP         = "http"
	ComponentLedger       = "ledger"
	ComponentStorage      = "storage"
	ComponentKafka        = "kafka"
	ComponentWorkerPool   = "worker_pool"
	ComponentExchangeRate = "exchange_rate"
	ComponentAdvice       = "advice"
	ComponentAuth         = "auth"
)

// NewLogger creates the process logger writing JSON to stdout
func NewLogger(cfg *config.Config) *slog.Logger {
	return New(os.Stdout, cfg)
}

// New creates a JSON logger writing to w. Debug level also records the call site.
func New(w io.Writer, cfg *config.Config) *slog.Logger {
	level := ParseLevel(cfg.Logging.Level)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	logger := slog.New(slog.NewJSONHandler(w, opts))
	if cfg.Application.Name != "" {
		logger = logger.With("app", cfg.Application.Name, "env", cfg.Application.Env)
	}

	logger.Info("logger initialized", "level", level)

	return logger
}

// ParseLevel maps a level name to its slog level, defaulting to info
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent tags every record of the returned logger with the component name
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}
