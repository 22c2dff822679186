package middleware

import (
	"context"
	"time"

	"sharedbucket/message"
)

// TimeoutMiddleware bounds handler execution time. A handler that exceeds
// it keeps running, but its response is dropped; side effects it makes
// after the deadline are not rolled back.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.Message) *message.Message {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			done := make(chan *message.Message, 1)
			go func() {
				done <- next(ctx, req)
			}()

			select {
			case resp := <-done:
				return resp
			case <-ctx.Done():
				return &message.Message{
					Method: req.Method,
					Error:  "request timed out",
				}
			}
		}
	}
}
