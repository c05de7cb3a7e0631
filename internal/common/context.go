package common

import "context"

type contextKey int

const correlationIDKey contextKey = iota

// WithCorrelationID stores the request correlation ID in ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationID returns the correlation ID stored in ctx, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// LoggerFor returns logger tagged with the correlation ID carried by ctx, if any.
func LoggerFor(ctx context.Context, logger *Logger) *Logger {
	if id := CorrelationID(ctx); id != "" {
		return logger.WithCorrelationId(id)
	}
	return logger
}
