// Package keyvalue abstracts the durable store behind the customer service.
// The Redis implementation backs deployments; the in-memory one backs tests.
package keyvalue

import "context"

// GetResponse reports whether a key exists separately from its value, so an
// empty stored value is distinguishable from a missing key.
type GetResponse struct {
	Exists bool
	Value  string
}

// SetRequest writes one key. Expires is a TTL in seconds; zero means the
// key never expires.
type SetRequest struct {
	Key     string
	Value   string
	Expires uint32
}

type Store interface {
	Get(ctx context.Context, key string) (GetResponse, error)
	Set(ctx context.Context, req SetRequest) error
}
