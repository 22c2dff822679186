// Package codec implements the self-describing binary wire format used for
// every value exchanged between components.
//
// Each value starts with a one-byte marker that identifies its kind, so a
// decoder can always tell what it is looking at without a schema in hand.
// That property is what makes the two struct layouts (positional array and
// keyed map) interchangeable: the decoder peeks the first marker and picks
// the matching code path, and unknown trailing fields can be skipped byte
// by byte for forward compatibility.
//
// Token encoding (all integers big-endian, network byte order):
//
//	nil      0x00
//	false    0x01
//	true     0x02
//	uint     0x03  + 8 bytes value
//	string   0x04  + uint32 length + UTF-8 bytes
//	array    0x05  + uint16 element count, elements follow
//	map      0x06  + uint16 pair count, key/value tokens follow
package codec

// Marker bytes, one per token kind.
const (
	markerNil    byte = 0x00
	markerFalse  byte = 0x01
	markerTrue   byte = 0x02
	markerUint   byte = 0x03
	markerString byte = 0x04
	markerArray  byte = 0x05
	markerMap    byte = 0x06
)

// Kind identifies the type of the next token in a stream.
// It appears in TypeMismatchError diagnostics.
type Kind byte

const (
	KindNil Kind = iota
	KindBool
	KindUint
	KindString
	KindArray
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindUint:
		return "uint"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	}
	return "unknown"
}

func kindOf(marker byte) (Kind, bool) {
	switch marker {
	case markerNil:
		return KindNil, true
	case markerFalse, markerTrue:
		return KindBool, true
	case markerUint:
		return KindUint, true
	case markerString:
		return KindString, true
	case markerArray:
		return KindArray, true
	case markerMap:
		return KindMap, true
	}
	return 0, false
}
