// Package dispatch routes incoming messages to typed service handlers.
//
// A Handler is the receiving side of one service: it parses the operation
// out of the message method, decodes the argument, invokes the typed
// implementation, and encodes the reply. The Registry maps service names to
// handlers and is built explicitly at process start — there is no runtime
// discovery and no mutation after startup wiring.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"sharedbucket/message"
)

// Handler dispatches one service's operations.
// Implementations live next to their schema (see the bucket package);
// each one routes on a closed operation enum with an exhaustive switch.
type Handler interface {
	// ServiceName returns the service this handler receives for,
	// e.g. "Customers". It is the routing key inside a Registry.
	ServiceName() string

	// Dispatch decodes msg's payload, invokes the matching operation,
	// and returns the encoded reply. It performs no retries, no logging,
	// and no side effects of its own.
	Dispatch(ctx context.Context, msg *message.Message) (*message.Message, error)
}

// Registry maps service names to their handlers.
// Register all handlers during startup, then treat the registry as
// read-only; Dispatch may be called concurrently.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler under its service name.
// Registering the same service twice is a wiring bug and fails loudly.
func (r *Registry) Register(h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := h.ServiceName()
	if _, dup := r.handlers[name]; dup {
		return fmt.Errorf("dispatch: service %q already registered", name)
	}
	r.handlers[name] = h
	return nil
}

// Lookup returns the handler for a service name.
func (r *Registry) Lookup(service string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[service]
	return h, ok
}

// Services returns the names of all registered services.
func (r *Registry) Services() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}

// Dispatch routes a "<Service>.<Operation>" message to the matching
// handler. A method that names no registered service fails with
// MethodNotHandledError rather than being dropped.
func (r *Registry) Dispatch(ctx context.Context, msg *message.Message) (*message.Message, error) {
	service, _, ok := strings.Cut(msg.Method, ".")
	if !ok {
		return nil, &MethodNotHandledError{Method: msg.Method}
	}
	h, found := r.Lookup(service)
	if !found {
		return nil, &MethodNotHandledError{Service: service, Method: msg.Method}
	}
	return h.Dispatch(ctx, msg)
}
