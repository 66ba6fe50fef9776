package logging

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig controls the optional Sentry fan-out.
type SentryConfig struct {
	DSN         string
	Environment string
}

// NewWithSentry returns a stdout JSON logger that also reports errors to
// Sentry. An empty DSN, or a failed SDK init, yields a plain stdout logger.
func NewWithSentry(level string, cfg SentryConfig) *Logger {
	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: ParseLevel(level)})
	if cfg.DSN == "" {
		return &Logger{Logger: slog.New(stdout)}
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(stdout).Error("failed to initialize sentry", "error", err)
		return &Logger{Logger: slog.New(stdout)}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
	}.NewSentryHandler(context.Background())

	return &Logger{Logger: slog.New(newMultiHandler(stdout, sentryHandler))}
}

// FlushSentry waits for buffered Sentry events. Safe to call when Sentry
// was never initialized.
func FlushSentry(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}
