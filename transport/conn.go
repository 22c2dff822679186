// TCP client transport with multiplexing and heartbeat.
//
// A Conn carries many concurrent calls over one TCP connection. Each
// request gets a unique sequence number; a single background goroutine
// (recvLoop) reads response frames and routes each one to the waiting
// caller through its pending channel.
//
//	goroutine-1 ──Send(seq=1)──┐
//	goroutine-2 ──Send(seq=2)──┼──→ single TCP conn ──→ server
//	goroutine-3 ──Send(seq=3)──┘
//
//	recvLoop:  ←── response(seq=2) → pending[2] chan → goroutine-2 wakes up
package transport

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"sharedbucket/message"
	"sharedbucket/protocol"
)

const heartbeatInterval = 30 * time.Second

// Conn is a multiplexed connection to one remote target.
type Conn struct {
	target  string
	conn    net.Conn
	seq     atomic.Uint32
	pending sync.Map // seq → chan connResult, one waiting caller per entry
	sending sync.Mutex
	closed  atomic.Bool
	timeout time.Duration
}

type connResult struct {
	resp *message.Message
	err  error
}

// Dial connects to a remote target over TCP.
func Dial(network, addr string) (*Conn, error) {
	nc, err := net.Dial(network, addr)
	if err != nil {
		return nil, &TransportError{Target: addr, Err: err}
	}
	return NewConn(nc, addr), nil
}

// NewConn wraps an established connection and starts the receive and
// heartbeat loops. target names the remote side in errors.
func NewConn(nc net.Conn, target string) *Conn {
	c := &Conn{target: target, conn: nc}
	go c.recvLoop()
	go c.heartbeatLoop(heartbeatInterval)
	return c
}

// SetTimeout bounds the wait for each subsequent Send. Zero means no bound
// beyond the caller's context.
func (c *Conn) SetTimeout(d time.Duration) { c.timeout = d }

// Send transmits one request frame and waits for the matching response.
// The write lock keeps the frame (header + body) contiguous on the stream;
// interleaved writes from concurrent calls would corrupt it.
func (c *Conn) Send(ctx context.Context, msg *message.Message) (*message.Message, error) {
	if c.closed.Load() {
		return nil, &TransportError{Target: c.target, Err: net.ErrClosed}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	body := msg.Marshal()
	seq := c.seq.Add(1)

	header := protocol.Header{
		MsgType: protocol.MsgTypeRequest,
		Seq:     seq,
		BodyLen: uint32(len(body)),
	}

	// Register the response channel before writing, so a fast response
	// cannot race past recvLoop's lookup.
	respChan := make(chan connResult, 1)
	c.pending.Store(seq, respChan)

	c.sending.Lock()
	err := protocol.Encode(c.conn, &header, body)
	c.sending.Unlock()
	if err != nil {
		c.pending.Delete(seq)
		return nil, &TransportError{Target: c.target, Err: err}
	}

	select {
	case r := <-respChan:
		if r.err != nil {
			return nil, r.err
		}
		if r.resp.Error != "" {
			return nil, &RemoteError{Target: c.target, Method: msg.Method, Text: r.resp.Error}
		}
		return r.resp, nil
	case <-ctx.Done():
		// Abandon the call; the response, if it ever arrives, is dropped.
		c.pending.Delete(seq)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{Target: c.target, Method: msg.Method, Elapsed: time.Since(start)}
		}
		return nil, ctx.Err()
	}
}

// Close tears down the connection. Pending calls fail with TransportError.
func (c *Conn) Close() error {
	c.closed.Store(true)
	return c.conn.Close()
}

// recvLoop is the single reader of the connection. TCP is a byte stream —
// frame boundaries only parse correctly with sequential reads — so all
// response routing funnels through this one goroutine.
func (c *Conn) recvLoop() {
	for {
		header, body, err := protocol.Decode(c.conn)
		if err != nil {
			c.failAllPending(err)
			return
		}

		resp, err := message.Unmarshal(body)
		if err != nil {
			c.failAllPending(err)
			return
		}

		if ch, ok := c.pending.LoadAndDelete(header.Seq); ok {
			ch.(chan connResult) <- connResult{resp: resp}
		}
	}
}

// failAllPending runs when the connection breaks: every waiting caller
// gets a TransportError instead of blocking forever.
func (c *Conn) failAllPending(err error) {
	c.closed.Store(true)
	c.pending.Range(func(key, value any) bool {
		c.pending.Delete(key)
		value.(chan connResult) <- connResult{err: &TransportError{Target: c.target, Err: err}}
		return true
	})
}

// heartbeatLoop keeps idle connections alive with empty heartbeat frames.
func (c *Conn) heartbeatLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		if c.closed.Load() {
			return
		}
		header := &protocol.Header{MsgType: protocol.MsgTypeHeartbeat}
		c.sending.Lock()
		err := protocol.Encode(c.conn, header, nil)
		c.sending.Unlock()
		if err != nil {
			return
		}
	}
}
