package middleware

import (
	"context"

	"golang.org/x/time/rate"

	"sharedbucket/message"
)

// RateLimitMiddleware rejects requests beyond r per second with a burst
// allowance, using a shared token bucket across all methods.
func RateLimitMiddleware(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Message) *message.Message {
			if !limiter.Allow() {
				return &message.Message{
					Method: req.Method,
					Error:  "rate limit exceeded",
				}
			}
			return next(ctx, req)
		}
	}
}
