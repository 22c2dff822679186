// Package client is the sender side of the RPC machinery: it resolves a
// named target to a live connection and sends envelopes through it.
//
// Resolution pipeline per call:
//
//	registry.Discover(target) → balancer.Pick → per-address conn pool → Send
//
// The client never inspects payloads; it only supplies encoded bytes and
// the method name, leaving routing to the registry and balancer.
package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"sharedbucket/loadbalance"
	"sharedbucket/message"
	"sharedbucket/registry"
	"sharedbucket/transport"
)

// Client owns the connection pools shared by all targets it serves.
type Client struct {
	registry registry.Registry
	balancer loadbalance.Balancer
	pools    map[string]chan *transport.Conn // one pool of multiplexed conns per address
	poolSize int
	mu       sync.Mutex
}

func New(reg registry.Registry, bal loadbalance.Balancer, poolSize int) *Client {
	return &Client{
		registry: reg,
		balancer: bal,
		pools:    make(map[string]chan *transport.Conn),
		poolSize: poolSize,
	}
}

// Target binds the client to one addressable name. The returned value is a
// transport.Transport, so typed senders work over it unchanged.
func (c *Client) Target(name string) *Target {
	return &Target{client: c, name: name}
}

// Target addresses one named remote component.
type Target struct {
	client  *Client
	name    string
	timeout time.Duration
}

// SetTimeout bounds the wait for each subsequent Send. Zero means no bound
// beyond the caller's context.
func (t *Target) SetTimeout(d time.Duration) { t.timeout = d }

// Send resolves the target and performs one attempt, no retry.
func (t *Target) Send(ctx context.Context, msg *message.Message) (*message.Message, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	instances, err := t.client.registry.Discover(t.name)
	if err != nil {
		return nil, &transport.TransportError{Target: t.name, Err: err}
	}

	instance, err := t.client.balancer.Pick(instances)
	if err != nil {
		return nil, &transport.TransportError{Target: t.name, Err: err}
	}

	conn, err := t.client.getConn(instance.Addr)
	if err != nil {
		return nil, err
	}

	resp, err := conn.Send(ctx, msg)

	// A broken connection must not go back into the pool; its recvLoop is
	// already failing every call on it. The pool refills lazily on the
	// next getConn.
	var transportErr *transport.TransportError
	if errors.As(err, &transportErr) {
		conn.Close()
		return nil, err
	}

	t.client.putConn(instance.Addr, conn)
	return resp, err
}

// getConn borrows a connection from the address pool, dialing a fresh one
// when the pool is empty. Connections are multiplexed, so callers waiting
// on different requests can share one safely.
func (c *Client) getConn(addr string) (*transport.Conn, error) {
	c.mu.Lock()
	pool, ok := c.pools[addr]
	if !ok {
		pool = make(chan *transport.Conn, c.poolSize)
		c.pools[addr] = pool
	}
	c.mu.Unlock()

	select {
	case conn := <-pool:
		return conn, nil
	default:
		return transport.Dial("tcp", addr)
	}
}

// putConn returns a healthy connection; when the pool is already full the
// surplus connection is closed instead of blocking the caller.
func (c *Client) putConn(addr string, conn *transport.Conn) {
	c.mu.Lock()
	pool := c.pools[addr]
	c.mu.Unlock()

	select {
	case pool <- conn:
	default:
		conn.Close()
	}
}

// Close tears down every pooled connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for addr, pool := range c.pools {
		close(pool)
		for conn := range pool {
			conn.Close()
		}
		delete(c.pools, addr)
	}
}
