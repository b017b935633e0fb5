package cbor

import (
	"math"
	"math/big"
	"sort"
)

// initialBufferSize is the starting capacity of the output region for
// a top-level Encode call.
const initialBufferSize = 256

// errEncodeDepth guards against cyclic Value graphs and replacers that
// keep growing the tree.
var errEncodeDepth error = EncodingError{msg: "recursion limit reached"}

// ensure 'sz' extra bytes in 'b' between len(b) and cap(b)
func ensure(b []byte, sz int) ([]byte, int) {
	l := len(b)
	c := cap(b)
	if c-l < sz {
		o := make([]byte, (2*c)+sz) // exponential growth
		n := copy(o, b)
		return o[:n+sz], n
	}
	return b[:l+sz], l
}

// appendUintCore encodes an unsigned argument with the given major
// type, always choosing the minimal width: direct literal up to 23,
// then 1/2/4/8 big-endian trailing bytes.
func appendUintCore(b []byte, majorType uint8, u uint64) []byte {
	switch {
	case u <= addInfoDirect:
		return append(b, makeByte(majorType, uint8(u)))
	case u <= math.MaxUint8:
		o, n := ensure(b, 2)
		o[n] = makeByte(majorType, addInfoUint8)
		o[n+1] = uint8(u)
		return o
	case u <= math.MaxUint16:
		o, n := ensure(b, 3)
		o[n] = makeByte(majorType, addInfoUint16)
		be.PutUint16(o[n+1:], uint16(u))
		return o
	case u <= math.MaxUint32:
		o, n := ensure(b, 5)
		o[n] = makeByte(majorType, addInfoUint32)
		be.PutUint32(o[n+1:], uint32(u))
		return o
	default:
		o, n := ensure(b, 9)
		o[n] = makeByte(majorType, addInfoUint64)
		be.PutUint64(o[n+1:], u)
		return o
	}
}

// appendByteRun appends a length-prefixed byte run (text or byte
// string), reserving header and payload in one shot.
func appendByteRun(b []byte, majorType uint8, data []byte) []byte {
	sz := uint64(len(data))
	var h int
	switch {
	case sz <= addInfoDirect:
		h = 1
	case sz <= math.MaxUint8:
		h = 2
	case sz <= math.MaxUint16:
		h = 3
	case sz <= math.MaxUint32:
		h = 5
	default:
		h = 9
	}
	o, n := ensure(b, h+int(sz))
	switch h {
	case 1:
		o[n] = makeByte(majorType, uint8(sz))
	case 2:
		o[n] = makeByte(majorType, addInfoUint8)
		o[n+1] = uint8(sz)
	case 3:
		o[n] = makeByte(majorType, addInfoUint16)
		be.PutUint16(o[n+1:], uint16(sz))
	case 5:
		o[n] = makeByte(majorType, addInfoUint32)
		be.PutUint32(o[n+1:], uint32(sz))
	case 9:
		o[n] = makeByte(majorType, addInfoUint64)
		be.PutUint64(o[n+1:], sz)
	}
	copy(o[n+h:], data)
	return o[:n+h+int(sz)]
}

// Encode serializes a Value into its canonical definite-length CBOR
// encoding. Integers always take the minimal-width header; maps are
// emitted in Go map iteration order (see EncodeDeterministic for a
// byte-stable ordering).
func Encode(v Value) ([]byte, error) {
	return EncodeWithReplacer(v, nil)
}

// EncodeWithReplacer serializes a Value, applying the replacer
// top-down: every node is replaced before it is classified, the root
// with an empty key, container elements with their map key or decimal
// index, and replacement results are themselves traversed recursively.
func EncodeWithReplacer(v Value, replacer Transform) ([]byte, error) {
	return appendValue(make([]byte, 0, initialBufferSize), "", v, replacer, false, 0)
}

// EncodeSelfDescribed is Encode prefixed with the self-described-CBOR
// tag (55799, wire bytes d9d9f7), so receivers can identify the stream
// as CBOR. Decode unwraps the tag transparently.
func EncodeSelfDescribed(v Value) ([]byte, error) {
	return EncodeSelfDescribedWithReplacer(v, nil)
}

// EncodeSelfDescribedWithReplacer is EncodeWithReplacer prefixed with
// the self-described-CBOR tag.
func EncodeSelfDescribedWithReplacer(v Value, replacer Transform) ([]byte, error) {
	b := appendUintCore(make([]byte, 0, initialBufferSize), majorTypeTag, tagSelfDescribeCBOR)
	return appendValue(b, "", v, replacer, false, 0)
}

// EncodeDeterministic serializes a Value with map keys ordered by
// their encoded byte representation (RFC 8949 deterministic order),
// producing byte-stable output for equal Values.
func EncodeDeterministic(v Value) ([]byte, error) {
	return appendValue(make([]byte, 0, initialBufferSize), "", v, nil, true, 0)
}

// AppendValue appends the encoding of v to b and returns the extended
// slice, for composing CBOR sequences.
func AppendValue(b []byte, v Value) ([]byte, error) {
	return appendValue(b, "", v, nil, false, 0)
}

// AppendValueDeterministic is AppendValue with deterministic map key
// ordering.
func AppendValueDeterministic(b []byte, v Value) ([]byte, error) {
	return appendValue(b, "", v, nil, true, 0)
}

func appendValue(b []byte, key string, v Value, rep Transform, det bool, depth int) ([]byte, error) {
	if depth > recursionLimit {
		return b, errEncodeDepth
	}
	v = rep.apply(key, v)

	switch v.kind {
	case IntKind:
		if v.num >= 0 {
			return appendUintCore(b, majorTypeUint, uint64(v.num)), nil
		}
		return appendUintCore(b, majorTypeNegInt, uint64(-1-v.num)), nil

	case BigNumKind:
		return appendBigNum(b, v.big)

	case TextKind:
		return appendByteRun(b, majorTypeText, []byte(v.str)), nil

	case BytesKind:
		return appendByteRun(b, majorTypeBytes, v.bin), nil

	case ArrayKind:
		b = appendUintCore(b, majorTypeArray, uint64(len(v.arr)))
		var err error
		for i, elem := range v.arr {
			b, err = appendValue(b, indexKey(i), elem, rep, det, depth+1)
			if err != nil {
				return b, err
			}
		}
		return b, nil

	case MapKind:
		b = appendUintCore(b, majorTypeMap, uint64(len(v.m)))
		var err error
		if det {
			for _, k := range deterministicKeys(v.m) {
				b = appendByteRun(b, majorTypeText, []byte(k))
				b, err = appendValue(b, k, v.m[k], rep, det, depth+1)
				if err != nil {
					return b, err
				}
			}
			return b, nil
		}
		for k, elem := range v.m {
			b = appendByteRun(b, majorTypeText, []byte(k))
			b, err = appendValue(b, k, elem, rep, det, depth+1)
			if err != nil {
				return b, err
			}
		}
		return b, nil

	case BoolKind:
		if v.num != 0 {
			return append(b, makeByte(majorTypeSimple, simpleTrue)), nil
		}
		return append(b, makeByte(majorTypeSimple, simpleFalse)), nil

	case NullKind:
		return append(b, makeByte(majorTypeSimple, simpleNull)), nil

	case UndefinedKind:
		return append(b, makeByte(majorTypeSimple, simpleUndefined)), nil

	default:
		return b, errUnencodable(v.kind)
	}
}

// appendBigNum encodes an arbitrary-precision integer as a plain
// major-type-0/1 item. The representable range is [0, 2^64-1] and
// [-2^64, -1]; anything beyond fails with the offending magnitude in
// the error message.
func appendBigNum(b []byte, z *big.Int) ([]byte, error) {
	if z.Sign() >= 0 {
		if z.BitLen() > 64 {
			return b, errValueTooLarge(z.String())
		}
		return appendUintCore(b, majorTypeUint, z.Uint64()), nil
	}
	// value = -1 - m, so m = -value - 1
	m := new(big.Int).Neg(z)
	m.Sub(m, bigOne)
	if m.BitLen() > 64 {
		return b, errValueTooLarge(m.String())
	}
	return appendUintCore(b, majorTypeNegInt, m.Uint64()), nil
}

// deterministicKeys orders map keys by their encoded byte
// representation. For minimally-encoded text keys that is exactly
// length-first, then bytewise lexicographic.
func deterministicKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
