// Package middleware wraps request handling in composable layers: logging,
// rate limiting, timeouts. Middlewares operate on the envelope level and
// never look inside payloads.
package middleware

import (
	"context"

	"sharedbucket/message"
)

// HandlerFunc processes one request envelope into a response envelope.
// Failures travel in the response's Error field, not a Go error, because
// this is the shape the wire gives us.
type HandlerFunc func(ctx context.Context, req *message.Message) *message.Message

type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middlewares into one. The first middleware in the list is
// the outermost layer.
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
