// Package cbor implements a bidirectional codec between an in-memory
// Value model and the Concise Binary Object Representation (RFC 8949).
//
// The package exposes four "families" of functions:
//   - Decode/DecodeWithReviver turn a []byte into a Value.
//   - Encode/EncodeWithReplacer turn a Value into a []byte.
//   - ReadValueBytes/AppendValue are the remainder-threading variants
//     used to compose codecs over CBOR sequences.
//   - Skip/ValidateWellFormedBytes/DiagBytes operate on the raw wire
//     without materializing Values.
//
// All state a call needs (the read cursor on decode, the growable
// output region on encode) is threaded through the recursion as
// explicit parameters, so concurrent calls never share anything.
package cbor

// CBOR major types (3 bits)
const (
	majorTypeUint   = 0 // unsigned integer
	majorTypeNegInt = 1 // negative integer
	majorTypeBytes  = 2 // byte string
	majorTypeText   = 3 // text string (UTF-8)
	majorTypeArray  = 4 // array
	majorTypeMap    = 5 // map
	majorTypeTag    = 6 // semantic tag
	majorTypeSimple = 7 // simple values, floats, break
)

// Additional info values (5 bits)
const (
	// 0-23: literal value
	addInfoDirect     = 23 // max direct value
	addInfoUint8      = 24 // 1-byte uint8 follows
	addInfoUint16     = 25 // 2-byte uint16 follows
	addInfoUint32     = 26 // 4-byte uint32 follows
	addInfoUint64     = 27 // 8-byte uint64 follows
	addInfoIndefinite = 31 // indefinite length (for bytes, text, array, map)
)

// Simple values in major type 7
const (
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
	simpleFloat16   = 25
	simpleFloat32   = 26
	simpleFloat64   = 27
	simpleBreak     = 31
)

// tagSelfDescribeCBOR is the only semantic tag this codec recognizes.
// It identifies a byte stream as CBOR (wire bytes 0xd9d9f7) and is
// transparently unwrapped on decode.
const tagSelfDescribeCBOR = 55799

// maxSafeInt is the largest magnitude the int64 arm of a Value carries
// without risking precision loss when the Value crosses a boundary with
// float-based consumers (2^53-1, the IEEE 754 double safe-integer
// limit). Magnitudes at or above it live in the big.Int arm on both
// the read and write paths.
const maxSafeInt = 1<<53 - 1

// recursionLimit bounds the call depth of dynamic traversal (decode,
// Skip, diag, JSON rendering) against adversarial nesting.
const recursionLimit = 100000

// makeByte creates a CBOR initial byte from major type and additional info
func makeByte(majorType, addInfo uint8) byte {
	return byte((majorType << 5) | addInfo)
}

// getMajorType extracts the major type from a CBOR initial byte
func getMajorType(b byte) uint8 {
	return (b >> 5) & 0x07
}

// getAddInfo extracts the additional info from a CBOR initial byte
func getAddInfo(b byte) uint8 {
	return b & 0x1f
}

// ValidateUTF8OnDecode controls whether text-string decoding validates
// UTF-8. Disabled by default: invalid byte sequences pass through into
// the produced string unchanged, matching the lossy behavior of most
// host UTF-8 decoders. Enable for strict RFC 8949 validity checking.
var ValidateUTF8OnDecode = false
