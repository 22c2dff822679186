package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Layout selects the physical arrangement of an encoded struct.
// Decoders auto-detect the layout from the first marker, so either side
// may be chosen freely per message.
type Layout byte

const (
	// LayoutMap writes field name → value pairs. Larger on the wire but
	// tolerant of field reordering and easiest to evolve.
	LayoutMap Layout = iota
	// LayoutArray writes values at their wire positions, no names.
	LayoutArray
)

// Encoder appends tokens to an in-memory buffer.
// The zero value is ready to use and encodes structs in map layout.
type Encoder struct {
	// Layout is consulted by struct-level encode functions; the token
	// primitives below are layout-independent.
	Layout Layout
	buf    []byte
}

// NewEncoder returns an empty encoder using the given struct layout.
func NewEncoder(layout Layout) *Encoder {
	return &Encoder{Layout: layout}
}

// Bytes returns the encoded output accumulated so far.
func (e *Encoder) Bytes() []byte { return e.buf }

// Nil writes the explicit absence marker, used for optional fields.
func (e *Encoder) Nil() {
	e.buf = append(e.buf, markerNil)
}

func (e *Encoder) Bool(v bool) {
	if v {
		e.buf = append(e.buf, markerTrue)
	} else {
		e.buf = append(e.buf, markerFalse)
	}
}

func (e *Encoder) Uint(v uint64) {
	e.buf = append(e.buf, markerUint)
	e.buf = binary.BigEndian.AppendUint64(e.buf, v)
}

func (e *Encoder) String(s string) {
	e.buf = append(e.buf, markerString)
	e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(len(s)))
	e.buf = append(e.buf, s...)
}

// ArrayHeader announces an array of n elements; the caller must write
// exactly n value tokens after it.
func (e *Encoder) ArrayHeader(n int) error {
	if n < 0 || n > math.MaxUint16 {
		return fmt.Errorf("codec: array length %d out of range", n)
	}
	e.buf = append(e.buf, markerArray)
	e.buf = binary.BigEndian.AppendUint16(e.buf, uint16(n))
	return nil
}

// MapHeader announces a map of n key/value pairs; the caller must write
// exactly n key tokens each followed by a value token.
func (e *Encoder) MapHeader(n int) error {
	if n < 0 || n > math.MaxUint16 {
		return fmt.Errorf("codec: map length %d out of range", n)
	}
	e.buf = append(e.buf, markerMap)
	e.buf = binary.BigEndian.AppendUint16(e.buf, uint16(n))
	return nil
}
