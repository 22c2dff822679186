// Package message defines the RPC envelope exchanged between components.
//
// Message is the unit every layer above the frame protocol works with: the
// dispatcher routes on Method, the payload is one codec-encoded value, and
// Error carries a remote failure back on the response path.
package message

import (
	"encoding/binary"
	"errors"
)

// Message carries the data for a single RPC request or response.
//
//   - On request:  Method is "<Service>.<Operation>", Payload holds the
//     encoded argument, Error is empty.
//   - On response: Payload holds the encoded reply, Error is non-empty if
//     the remote handler failed.
//
// A Message is immutable once constructed; nothing in this module mutates
// one after it has been handed off.
type Message struct {
	Method  string
	Error   string
	Payload []byte
}

var errTruncated = errors.New("message: truncated envelope")

// Marshal encodes the envelope as length-prefixed sections:
// uint16 method length + method, uint32 payload length + payload,
// uint16 error length + error. All integers big-endian.
func (m *Message) Marshal() []byte {
	total := 2 + len(m.Method) + 4 + len(m.Payload) + 2 + len(m.Error)
	buf := make([]byte, 0, total)

	buf = binary.BigEndian.AppendUint16(buf, uint16(len(m.Method)))
	buf = append(buf, m.Method...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(m.Payload)))
	buf = append(buf, m.Payload...)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(m.Error)))
	buf = append(buf, m.Error...)
	return buf
}

// Unmarshal decodes an envelope produced by Marshal.
func Unmarshal(data []byte) (*Message, error) {
	m := &Message{}
	off := 0

	if len(data)-off < 2 {
		return nil, errTruncated
	}
	n := int(binary.BigEndian.Uint16(data[off:]))
	off += 2
	if len(data)-off < n {
		return nil, errTruncated
	}
	m.Method = string(data[off : off+n])
	off += n

	if len(data)-off < 4 {
		return nil, errTruncated
	}
	n = int(binary.BigEndian.Uint32(data[off:]))
	off += 4
	if len(data)-off < n {
		return nil, errTruncated
	}
	m.Payload = make([]byte, n)
	copy(m.Payload, data[off:off+n])
	off += n

	if len(data)-off < 2 {
		return nil, errTruncated
	}
	n = int(binary.BigEndian.Uint16(data[off:]))
	off += 2
	if len(data)-off < n {
		return nil, errTruncated
	}
	m.Error = string(data[off : off+n])

	return m, nil
}
