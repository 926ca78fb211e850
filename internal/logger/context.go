package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// FromCtx returns the global logger with request_id attached when present.
func FromCtx(ctx context.Context) *zap.Logger {
	reqID := RequestIDFrom(ctx)
	if reqID == "" {
		return L()
	}
	return L().With(zap.String("request_id", reqID))
}

// Op is FromCtx tagged with the layer and method doing the work.
func Op(ctx context.Context, layer, method string, fields ...zap.Field) *zap.Logger {
	base := []zap.Field{
		zap.String("layer", layer),
		zap.String("method", method),
	}
	return FromCtx(ctx).With(append(base, fields...)...)
}
