// Package transport moves RPC envelopes between a caller and a named
// target, hiding whether the target lives in the same process or behind a
// network link.
//
// A Transport is a pure translation layer: it owns no call state beyond the
// connection handle and timeout configuration, and every Send is an
// independent single attempt — no retries, no buffering. Callers can tell
// "never got a response" (TransportError, TimeoutError) apart from "got an
// error response" (RemoteError) apart from local decode/dispatch failures.
package transport

import (
	"context"
	"fmt"
	"time"

	"sharedbucket/message"
)

// Transport sends one request envelope and waits for its response.
// Implementations must be safe for concurrent use; calls share nothing.
type Transport interface {
	Send(ctx context.Context, msg *message.Message) (*message.Message, error)
}

// TimeoutError reports that the configured deadline elapsed before a
// response arrived. The in-flight call is abandoned; whether the remote
// side still completes it is unknown (at-most-once is not guaranteed).
type TimeoutError struct {
	Target  string
	Method  string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: call to %s timed out after %v", e.Method, e.Target, e.Elapsed)
}

// TransportError reports a transport-level failure: target unreachable,
// connection reset, broken stream. No response was received.
type TransportError struct {
	Target string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Target, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError carries a failure reported by the remote dispatcher or
// handler. The call completed; the remote side declined it.
type RemoteError struct {
	Target string
	Method string
	Text   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: remote error from %s: %s", e.Method, e.Target, e.Text)
}
