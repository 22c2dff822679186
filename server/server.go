// Package server hosts registered service handlers behind the wire protocol:
// it accepts TCP connections, reads request frames, runs each request through
// the middleware chain into the dispatch registry, and writes the response
// frame back with the request's sequence number.
//
// Request processing pipeline:
//
//	Accept conn → handleConn (single goroutine reads frames)
//	  → for each request: go handleRequest (parallel processing)
//	    → message.Unmarshal → Middleware Chain → dispatch.Registry → write response
package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"sharedbucket/dispatch"
	"sharedbucket/message"
	"sharedbucket/middleware"
	"sharedbucket/protocol"
	"sharedbucket/registry"
)

// Server hosts one or more service handlers on a single listening address.
type Server struct {
	handlers      *dispatch.Registry
	listener      net.Listener
	wg            sync.WaitGroup // in-flight requests, drained on Shutdown
	shutdown      atomic.Bool
	middlewares   []middleware.Middleware
	handler       middleware.HandlerFunc
	registry      registry.Registry // nil when discovery is not in use
	advertiseAddr string            // the routable address published to the registry
	logger        *zap.Logger
}

func New(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		handlers: dispatch.NewRegistry(),
		logger:   logger,
	}
}

// Register adds a service handler. All registration happens before Serve.
func (svr *Server) Register(h dispatch.Handler) error {
	return svr.handlers.Register(h)
}

// Use appends a middleware. Middlewares wrap the dispatcher in the order
// they are added: the first Use call is the outermost layer.
func (svr *Server) Use(mw middleware.Middleware) {
	svr.middlewares = append(svr.middlewares, mw)
}

// Serve listens on address and blocks in the accept loop until Shutdown.
//
// advertiseAddr is the address published to the registry. It differs from
// the listen address because ":8080" is not routable from other hosts. Pass
// a nil registry to skip discovery.
func (svr *Server) Serve(network, address, advertiseAddr string, reg registry.Registry) error {
	listener, err := net.Listen(network, address)
	if err != nil {
		return err
	}
	svr.listener = listener

	// Build the middleware chain once, not per request.
	svr.handler = middleware.Chain(svr.middlewares...)(svr.dispatchHandler)

	svr.advertiseAddr = advertiseAddr
	if reg != nil {
		svr.registry = reg
		for _, name := range svr.handlers.Services() {
			// TTL 10s; the registry's keepalive renews the lease until
			// Shutdown deregisters.
			if err := reg.Register(name, registry.ServiceInstance{Addr: advertiseAddr}, 10); err != nil {
				listener.Close()
				return fmt.Errorf("registering %s: %w", name, err)
			}
		}
	}

	svr.logger.Info("serving",
		zap.String("addr", address),
		zap.Strings("services", svr.handlers.Services()))

	for {
		conn, err := listener.Accept()
		if err != nil {
			// listener.Close during Shutdown makes Accept fail; that is
			// the normal exit, not an error.
			if svr.shutdown.Load() {
				return nil
			}
			return err
		}
		go svr.handleConn(conn)
	}
}

// handleConn reads frames sequentially (frame boundaries require a single
// reader) and hands each request to its own goroutine, so a slow handler
// cannot stall the other requests multiplexed on this connection.
func (svr *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	writeMu := &sync.Mutex{} // shared by all request goroutines on this conn
	for {
		header, body, err := protocol.Decode(conn)
		if err != nil {
			return
		}
		if header.MsgType == protocol.MsgTypeHeartbeat {
			continue
		}
		go svr.handleRequest(header, body, conn, writeMu)
	}
}

func (svr *Server) handleRequest(header *protocol.Header, body []byte, conn net.Conn, writeMu *sync.Mutex) {
	svr.wg.Add(1)
	defer svr.wg.Done()

	req, err := message.Unmarshal(body)
	if err != nil {
		svr.logger.Warn("dropping malformed request", zap.Uint32("seq", header.Seq), zap.Error(err))
		return
	}

	resp := svr.handler(context.Background(), req)

	respBody := resp.Marshal()
	replyHeader := protocol.Header{
		MsgType: protocol.MsgTypeResponse,
		Seq:     header.Seq, // same seq as the request; the client matches on it
		BodyLen: uint32(len(respBody)),
	}

	writeMu.Lock()
	err = protocol.Encode(conn, &replyHeader, respBody)
	writeMu.Unlock()
	if err != nil {
		svr.logger.Warn("writing response", zap.String("method", req.Method), zap.Error(err))
	}
}

// dispatchHandler is the innermost handler wrapped by the middleware chain.
// Typed dispatch errors flatten into the envelope's Error string here; the
// client side rebuilds them as RemoteError.
func (svr *Server) dispatchHandler(ctx context.Context, req *message.Message) *message.Message {
	resp, err := svr.handlers.Dispatch(ctx, req)
	if err != nil {
		return &message.Message{Method: req.Method, Error: err.Error()}
	}
	return resp
}

// Shutdown stops the server gracefully:
//  1. deregister from the registry, so senders stop routing here
//  2. set the shutdown flag, then close the listener
//  3. wait out in-flight requests, bounded by timeout
func (svr *Server) Shutdown(timeout time.Duration) error {
	if svr.registry != nil {
		for _, name := range svr.handlers.Services() {
			if err := svr.registry.Deregister(name, svr.advertiseAddr); err != nil {
				svr.logger.Warn("deregistering", zap.String("service", name), zap.Error(err))
			}
		}
	}

	// The flag has to be set before Close, or Serve reports the Accept
	// failure as a real error.
	svr.shutdown.Store(true)
	if svr.listener != nil {
		svr.listener.Close()
	}

	done := make(chan struct{})
	go func() {
		svr.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("timeout waiting for in-flight requests")
	}
}
