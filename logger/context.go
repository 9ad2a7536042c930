package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
)

// ContextWithLogger stores a logger in the context.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in ctx, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}

// WithRequest scopes base to one HTTP request. The request id is tagged on
// every entry and can be read back with RequestID. An empty id leaves the
// field off.
func WithRequest(ctx context.Context, base *zap.Logger, requestID string) context.Context {
	if requestID == "" {
		return ContextWithLogger(ctx, base)
	}
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return ContextWithLogger(ctx, base.With(zap.String("request_id", requestID)))
}

// RequestID returns the id set by WithRequest.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithLocale tags the context logger with the locale the request is served in.
func WithLocale(ctx context.Context, locale string) context.Context {
	return ContextWithLogger(ctx, FromContext(ctx).With(zap.String("locale", locale)))
}
