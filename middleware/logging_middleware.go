package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"

	"sharedbucket/message"
)

// LoggingMiddleware records each handled request with its method, duration
// and outcome.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Message) *message.Message {
			start := time.Now()
			resp := next(ctx, req)
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.Duration("duration", time.Since(start)),
			}
			if resp.Error != "" {
				logger.Warn("request failed", append(fields, zap.String("error", resp.Error))...)
			} else {
				logger.Debug("request handled", fields...)
			}
			return resp
		}
	}
}
