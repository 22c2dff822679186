package codec

import (
	"encoding/binary"
	"fmt"
)

// Decoder reads tokens from an encoded byte slice.
// It keeps a cursor into the input; every read consumes exactly one token
// (including nested ones for Skip), so sequential reads walk the stream.
type Decoder struct {
	data []byte
	off  int
}

func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Peek reports the kind of the next token without consuming it.
// Struct decoders use this to select the array or map code path and to
// detect explicit nil markers on optional fields.
func (d *Decoder) Peek() (Kind, error) {
	if d.off >= len(d.data) {
		return 0, ErrTruncated
	}
	k, ok := kindOf(d.data[d.off])
	if !ok {
		return 0, fmt.Errorf("codec: unknown marker 0x%02x at offset %d", d.data[d.off], d.off)
	}
	return k, nil
}

// Nil consumes an absence marker.
func (d *Decoder) Nil() error {
	return d.expect(markerNil, KindNil)
}

func (d *Decoder) Bool() (bool, error) {
	k, err := d.Peek()
	if err != nil {
		return false, err
	}
	if k != KindBool {
		return false, &TypeMismatchError{Expected: KindBool, Found: k}
	}
	v := d.data[d.off] == markerTrue
	d.off++
	return v, nil
}

func (d *Decoder) Uint() (uint64, error) {
	if err := d.expect(markerUint, KindUint); err != nil {
		return 0, err
	}
	if len(d.data)-d.off < 8 {
		return 0, ErrTruncated
	}
	v := binary.BigEndian.Uint64(d.data[d.off:])
	d.off += 8
	return v, nil
}

func (d *Decoder) String() (string, error) {
	if err := d.expect(markerString, KindString); err != nil {
		return "", err
	}
	if len(d.data)-d.off < 4 {
		return "", ErrTruncated
	}
	n := int(binary.BigEndian.Uint32(d.data[d.off:]))
	d.off += 4
	if len(d.data)-d.off < n {
		return "", ErrTruncated
	}
	s := string(d.data[d.off : d.off+n])
	d.off += n
	return s, nil
}

// ArrayHeader consumes an array marker and returns the element count.
func (d *Decoder) ArrayHeader() (int, error) {
	return d.header(markerArray, KindArray)
}

// MapHeader consumes a map marker and returns the pair count.
func (d *Decoder) MapHeader() (int, error) {
	return d.header(markerMap, KindMap)
}

// Skip consumes the next token whatever it is, recursing into containers.
// This is the forward-compatibility primitive: fields the decoder's schema
// does not know about are skipped without error.
func (d *Decoder) Skip() error {
	k, err := d.Peek()
	if err != nil {
		return err
	}
	switch k {
	case KindNil:
		return d.Nil()
	case KindBool:
		_, err := d.Bool()
		return err
	case KindUint:
		_, err := d.Uint()
		return err
	case KindString:
		_, err := d.String()
		return err
	case KindArray:
		n, err := d.ArrayHeader()
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := d.Skip(); err != nil {
				return err
			}
		}
		return nil
	case KindMap:
		n, err := d.MapHeader()
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := d.Skip(); err != nil { // key
				return err
			}
			if err := d.Skip(); err != nil { // value
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("codec: cannot skip kind %s", k)
}

func (d *Decoder) expect(marker byte, kind Kind) error {
	k, err := d.Peek()
	if err != nil {
		return err
	}
	if d.data[d.off] != marker {
		return &TypeMismatchError{Expected: kind, Found: k}
	}
	d.off++
	return nil
}

func (d *Decoder) header(marker byte, kind Kind) (int, error) {
	if err := d.expect(marker, kind); err != nil {
		return 0, err
	}
	if len(d.data)-d.off < 2 {
		return 0, ErrTruncated
	}
	n := int(binary.BigEndian.Uint16(d.data[d.off:]))
	d.off += 2
	return n, nil
}
