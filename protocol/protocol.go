// Package protocol implements the binary frame protocol carrying RPC
// envelopes over TCP.
//
// It solves TCP's sticky packet problem with a fixed-size 13-byte header
// followed by a variable-length body. The receiver reads the header first
// to learn the body length, then reads exactly that many bytes. The body
// is one marshaled message envelope; heartbeat frames have no body.
//
// Frame format:
//
//	0      3  4  5         9        13
//	┌──────┬──┬──┬─────────┬─────────┬───────────────┐
//	│magic │v │mt│   seq   │ bodyLen │    body ...    │
//	│ sbr  │01│  │ uint32  │ uint32  │ bodyLen bytes  │
//	└──────┴──┴──┴─────────┴─────────┴───────────────┘
package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Magic number bytes: "sbr" (shared-bucket rpc).
// Used to reject non-protocol connections hitting the port.
const (
	MagicByte1 byte = 's'
	MagicByte2 byte = 'b'
	MagicByte3 byte = 'r'
	Version    byte = 0x01
	HeaderSize int  = 13 // 3 (magic) + 1 (version) + 1 (msgType) + 4 (seq) + 4 (bodyLen)
)

// MsgType distinguishes request, response, and heartbeat frames.
type MsgType byte

const (
	MsgTypeRequest   MsgType = 0 // Caller → callee RPC request
	MsgTypeResponse  MsgType = 1 // Callee → caller RPC response
	MsgTypeHeartbeat MsgType = 2 // KeepAlive probe (no body)
)

// Header is the fixed 13-byte frame header.
type Header struct {
	MsgType MsgType // Request, Response, or Heartbeat
	Seq     uint32  // Sequence ID — matches a response to its request
	BodyLen uint32  // Body length in bytes
}

// Encode writes a complete frame (header + body) to w.
// The caller must hold a write lock if multiple goroutines share the same
// writer, otherwise frames interleave and corrupt the stream.
func Encode(w io.Writer, h *Header, body []byte) error {
	buf := make([]byte, HeaderSize)

	copy(buf[0:3], []byte{MagicByte1, MagicByte2, MagicByte3})
	buf[3] = Version
	buf[4] = byte(h.MsgType)
	binary.BigEndian.PutUint32(buf[5:9], h.Seq)
	binary.BigEndian.PutUint32(buf[9:13], h.BodyLen)

	if _, err := w.Write(buf); err != nil {
		return err
	}
	// Body may be nil for heartbeat frames.
	if _, err := w.Write(body); err != nil {
		return err
	}
	return nil
}

// Decode reads a complete frame (header + body) from r.
// It validates the magic number, version, and message type, and uses
// io.ReadFull so partial reads never yield a half-parsed frame.
func Decode(r io.Reader) (*Header, []byte, error) {
	headerBuf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, headerBuf); err != nil {
		return nil, nil, err
	}

	if headerBuf[0] != MagicByte1 || headerBuf[1] != MagicByte2 || headerBuf[2] != MagicByte3 {
		return nil, nil, fmt.Errorf("invalid magic number: %x", headerBuf[0:3])
	}
	if headerBuf[3] != Version {
		return nil, nil, fmt.Errorf("unsupported version: %d", headerBuf[3])
	}

	msgType := headerBuf[4]
	if msgType != byte(MsgTypeRequest) && msgType != byte(MsgTypeResponse) && msgType != byte(MsgTypeHeartbeat) {
		return nil, nil, fmt.Errorf("unsupported message type: %d", msgType)
	}

	seq := binary.BigEndian.Uint32(headerBuf[5:9])
	bodyLen := binary.BigEndian.Uint32(headerBuf[9:13])

	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, nil, err
	}

	return &Header{
		MsgType: MsgType(msgType),
		Seq:     seq,
		BodyLen: bodyLen,
	}, body, nil
}
