package obs

import (
	"context"
	"log/slog"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID stores the request id used to correlate log lines.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the request id stored in ctx, or "" if none.
func RequestID(ctx context.Context) string {
	reqID, _ := ctx.Value(RequestIDKey).(string)
	return reqID
}

// Time logs how long the named operation took. Use as
//
//	defer obs.Time(ctx, logger, "osrm.ResolvePath")(&err)
func Time(ctx context.Context, logger *slog.Logger, name string) func(errp *error) {
	start := time.Now()

	if logger == nil {
		logger = slog.Default()
	}
	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			logger.Warn("op failed", "req_id", reqID, "op", name, "dur_ms", dur.Milliseconds(), "err", *errp)
			return
		}
		logger.Info("op done", "req_id", reqID, "op", name, "dur_ms", dur.Milliseconds())
	}
}
