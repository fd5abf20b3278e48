package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Log is the global logger instance
var Log *slog.Logger

var sentryEnabled bool

// Init initializes the global logger based on environment
// Development: Text format with Debug level
// Production: JSON format with Info level
// Errors are also sent to Sentry when a DSN is configured.
func Init(isDev bool, sentryDSN string) {
	Log = New(os.Stdout, isDev, sentryDSN)
	slog.SetDefault(Log)
}

func New(w io.Writer, isDev bool, sentryDSN string) *slog.Logger {
	var handlers []slog.Handler

	// Base handler (always enabled)
	if isDev {
		handlers = append(handlers, slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	// Optional Sentry handler (sends errors only)
	if sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              sentryDSN,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			sentryEnabled = true
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	// Use multi-handler if we have multiple, otherwise use single
	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	return slog.New(handler)
}

// Close flushes buffered Sentry events.
func Close() {
	if sentryEnabled {
		sentry.Flush(2 * time.Second)
	}
}
