package transport

import (
	"context"
	"errors"
	"time"

	"sharedbucket/dispatch"
	"sharedbucket/message"
)

// InProc reaches a target hosted in the same process through its dispatch
// registry. Typed dispatch errors cross this transport intact — there is no
// serialization boundary to flatten them into strings.
type InProc struct {
	reg     *dispatch.Registry
	target  string
	timeout time.Duration
}

// NewInProc returns a transport addressing the given in-process target.
// target is only used in error context; routing is the registry's job.
func NewInProc(reg *dispatch.Registry, target string) *InProc {
	return &InProc{reg: reg, target: target}
}

// SetTimeout bounds the wait for each subsequent Send. Zero means no bound
// beyond the caller's context.
func (t *InProc) SetTimeout(d time.Duration) { t.timeout = d }

func (t *InProc) Send(ctx context.Context, msg *message.Message) (*message.Message, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	start := time.Now()

	type result struct {
		resp *message.Message
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := t.reg.Dispatch(ctx, msg)
		done <- result{resp, err}
	}()

	select {
	case r := <-done:
		return r.resp, r.err
	case <-ctx.Done():
		// The handler keeps running; its side effects are not rolled back.
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{Target: t.target, Method: msg.Method, Elapsed: time.Since(start)}
		}
		return nil, ctx.Err()
	}
}
