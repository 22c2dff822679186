package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharedbucket/message"
	"sharedbucket/protocol"
)

// startEchoServer runs a frame-level echo server: every request comes back
// with its payload intact and the same sequence number. Heartbeats are
// consumed silently, matching what the real server does.
func startEchoServer(t *testing.T, handle func(*message.Message) *message.Message) string {
	t.Helper()
	ln, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			nc, err := ln.Accept()
			if err != nil {
				return
			}
			go func(nc net.Conn) {
				defer nc.Close()
				var writeMu sync.Mutex
				for {
					header, body, err := protocol.Decode(nc)
					if err != nil {
						return
					}
					if header.MsgType == protocol.MsgTypeHeartbeat {
						continue
					}
					req, err := message.Unmarshal(body)
					if err != nil {
						return
					}
					resp := handle(req)
					respBody := resp.Marshal()
					respHeader := protocol.Header{
						MsgType: protocol.MsgTypeResponse,
						Seq:     header.Seq,
						BodyLen: uint32(len(respBody)),
					}
					writeMu.Lock()
					protocol.Encode(nc, &respHeader, respBody)
					writeMu.Unlock()
				}
			}(nc)
		}
	}()
	return ln.Addr().String()
}

func TestConnRoundTrip(t *testing.T) {
	addr := startEchoServer(t, func(req *message.Message) *message.Message {
		return &message.Message{Method: req.Method, Payload: req.Payload}
	})

	conn, err := Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	resp, err := conn.Send(context.Background(), &message.Message{Method: "Echo.Ping", Payload: []byte("hello")})
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), resp.Payload)
}

func TestConnConcurrentCalls(t *testing.T) {
	addr := startEchoServer(t, func(req *message.Message) *message.Message {
		// Stagger responses so they come back out of request order.
		time.Sleep(time.Duration(req.Payload[len(req.Payload)-1]%7) * time.Millisecond)
		return &message.Message{Method: req.Method, Payload: req.Payload}
	})

	conn, err := Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	const calls = 20
	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload := []byte(fmt.Sprintf("call-%02d", i%7))
			resp, err := conn.Send(context.Background(), &message.Message{Method: "Echo.Ping", Payload: payload})
			assert.NoError(t, err)
			assert.Equal(t, payload, resp.Payload)
		}(i)
	}
	wg.Wait()
}

func TestConnRemoteError(t *testing.T) {
	addr := startEchoServer(t, func(req *message.Message) *message.Message {
		return &message.Message{Method: req.Method, Error: "Customers: method not handled Customers.Nope"}
	})

	conn, err := Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Send(context.Background(), &message.Message{Method: "Customers.Nope"})
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "Customers.Nope", remote.Method)
	assert.Contains(t, remote.Text, "method not handled")
}

func TestConnTimeout(t *testing.T) {
	// Server that accepts but never responds.
	ln, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			nc, err := ln.Accept()
			if err != nil {
				return
			}
			go func(nc net.Conn) {
				defer nc.Close()
				for {
					if _, _, err := protocol.Decode(nc); err != nil {
						return
					}
				}
			}(nc)
		}
	}()

	conn, err := Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	conn.SetTimeout(30 * time.Millisecond)

	_, err = conn.Send(context.Background(), &message.Message{Method: "Echo.Ping"})
	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "Echo.Ping", timeout.Method)
}

func TestConnBrokenPipeFailsPending(t *testing.T) {
	ln, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	defer ln.Close()
	accepted := make(chan net.Conn, 1)
	go func() {
		nc, err := ln.Accept()
		if err != nil {
			return
		}
		accepted <- nc
	}()

	conn, err := Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	errs := make(chan error, 1)
	go func() {
		_, err := conn.Send(context.Background(), &message.Message{Method: "Echo.Ping"})
		errs <- err
	}()

	// Give the call time to register, then kill the server side.
	time.Sleep(50 * time.Millisecond)
	(<-accepted).Close()

	select {
	case err := <-errs:
		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr)
	case <-time.After(2 * time.Second):
		t.Fatal("pending call never failed after connection loss")
	}
}

func TestConnSendAfterClose(t *testing.T) {
	addr := startEchoServer(t, func(req *message.Message) *message.Message {
		return &message.Message{Method: req.Method}
	})

	conn, err := Dial("tcp", addr)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	_, err = conn.Send(context.Background(), &message.Message{Method: "Echo.Ping"})
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}
