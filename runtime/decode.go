package cbor

import (
	"encoding/binary"
	"math/big"
)

var be = binary.BigEndian

// readArg reads the variable-width argument selected by the
// additional-info field of a header. info 0-23 is the literal value;
// 24/25/26/27 pull 1/2/4/8 big-endian trailing bytes. The reserved
// values 28-30 and the indefinite marker 31 are rejected here; callers
// that accept indefinite lengths check for it before calling.
func readArg(info uint8, b []byte) (uint64, []byte, error) {
	switch {
	case info <= addInfoDirect:
		return uint64(info), b, nil
	case info == addInfoUint8:
		if len(b) < 1 {
			return 0, b, ErrShortBytes
		}
		return uint64(b[0]), b[1:], nil
	case info == addInfoUint16:
		if len(b) < 2 {
			return 0, b, ErrShortBytes
		}
		return uint64(be.Uint16(b)), b[2:], nil
	case info == addInfoUint32:
		if len(b) < 4 {
			return 0, b, ErrShortBytes
		}
		return uint64(be.Uint32(b)), b[4:], nil
	case info == addInfoUint64:
		if len(b) < 8 {
			return 0, b, ErrShortBytes
		}
		return be.Uint64(b), b[8:], nil
	default:
		return 0, b, errBadAddInfo(info)
	}
}

// Decode decodes one CBOR item from b into a Value. Bytes past the
// first item are ignored; use ReadValueBytes to consume a sequence.
func Decode(b []byte) (Value, error) {
	return DecodeWithReviver(b, nil)
}

// DecodeWithReviver decodes one CBOR item, applying the reviver
// bottom-up: container elements are revived with their key (maps) or
// decimal index (arrays) before the container itself is complete, and
// the finished tree is revived once more at the root with an empty
// key.
func DecodeWithReviver(b []byte, reviver Transform) (Value, error) {
	v, _, err := decodeValue(b, reviver, 0)
	if err != nil {
		return Value{}, err
	}
	if v.kind == breakKind {
		return Value{}, ErrUnexpectedBreak
	}
	return reviver.apply("", v), nil
}

// ReadValueBytes decodes one CBOR item and returns it along with the
// remaining bytes, for use over CBOR sequences.
func ReadValueBytes(b []byte) (Value, []byte, error) {
	v, rest, err := decodeValue(b, nil, 0)
	if err != nil {
		return Value{}, b, err
	}
	if v.kind == breakKind {
		return Value{}, b, ErrUnexpectedBreak
	}
	return v, rest, nil
}

// decodeValue decodes the next item. Container elements are revived;
// the returned item itself is not (the caller holds its key context).
// A break stop code decodes to the internal break sentinel, which only
// indefinite-length container loops accept.
func decodeValue(b []byte, rev Transform, depth int) (Value, []byte, error) {
	if depth > recursionLimit {
		return Value{}, b, ErrRecursion
	}
	if len(b) < 1 {
		return Value{}, b, ErrShortBytes
	}
	major := getMajorType(b[0])
	info := getAddInfo(b[0])
	p := b[1:]

	switch major {
	case majorTypeUint:
		m, o, err := readArg(info, p)
		if err != nil {
			return Value{}, b, err
		}
		return unsignedValue(m), o, nil

	case majorTypeNegInt:
		m, o, err := readArg(info, p)
		if err != nil {
			return Value{}, b, err
		}
		return negativeValue(m), o, nil

	case majorTypeBytes:
		bs, o, err := readByteRun(b, majorTypeBytes)
		if err != nil {
			return Value{}, b, err
		}
		return Bytes(bs), o, nil

	case majorTypeText:
		bs, o, err := readByteRun(b, majorTypeText)
		if err != nil {
			return Value{}, b, err
		}
		if ValidateUTF8OnDecode && !isUTF8Valid(bs) {
			return Value{}, b, ErrInvalidUTF8
		}
		return Text(string(bs)), o, nil

	case majorTypeArray:
		if info == addInfoIndefinite {
			var elems []Value
			for i := 0; ; i++ {
				item, o, err := decodeValue(p, rev, depth+1)
				if err != nil {
					return Value{}, b, err
				}
				p = o
				if item.kind == breakKind {
					return Value{kind: ArrayKind, arr: elems}, p, nil
				}
				elems = append(elems, rev.apply(indexKey(i), item))
			}
		}
		n, o, err := readArg(info, p)
		if err != nil {
			return Value{}, b, err
		}
		p = o
		elems := make([]Value, 0, minCap(n))
		for i := uint64(0); i < n; i++ {
			item, o, err := decodeValue(p, rev, depth+1)
			if err != nil {
				return Value{}, b, err
			}
			if item.kind == breakKind {
				return Value{}, b, ErrUnexpectedBreak
			}
			p = o
			elems = append(elems, rev.apply(indexKey(int(i)), item))
		}
		return Value{kind: ArrayKind, arr: elems}, p, nil

	case majorTypeMap:
		if info == addInfoIndefinite {
			m := map[string]Value{}
			for {
				if len(p) < 1 {
					return Value{}, b, ErrShortBytes
				}
				if p[0] == makeByte(majorTypeSimple, simpleBreak) {
					return Value{kind: MapKind, m: m}, p[1:], nil
				}
				var err error
				p, err = decodeEntry(p, m, rev, depth)
				if err != nil {
					return Value{}, b, err
				}
			}
		}
		n, o, err := readArg(info, p)
		if err != nil {
			return Value{}, b, err
		}
		p = o
		m := make(map[string]Value, minCap(n))
		for i := uint64(0); i < n; i++ {
			var err error
			p, err = decodeEntry(p, m, rev, depth)
			if err != nil {
				return Value{}, b, err
			}
		}
		return Value{kind: MapKind, m: m}, p, nil

	case majorTypeTag:
		tag, o, err := readArg(info, p)
		if err != nil {
			return Value{}, b, err
		}
		if tag != tagSelfDescribeCBOR {
			return Value{}, b, errUnsupportedTag(tag)
		}
		// Transparent wrapper: the tag is invisible in the result.
		item, o2, err := decodeValue(o, rev, depth+1)
		if err != nil {
			return Value{}, b, err
		}
		if item.kind == breakKind {
			return Value{}, b, ErrUnexpectedBreak
		}
		return item, o2, nil

	case majorTypeSimple:
		switch info {
		case simpleFalse:
			return Bool(false), p, nil
		case simpleTrue:
			return Bool(true), p, nil
		case simpleNull:
			return Null, p, nil
		case simpleUndefined:
			return Undefined, p, nil
		case simpleBreak:
			return breakValue, p, nil
		default:
			return Value{}, b, errBadSimple(info)
		}
	}
	// Unreachable: getMajorType yields 0..7.
	return Value{}, b, errBadSimple(info)
}

// decodeEntry decodes one key/value pair into m, enforcing the
// text-key requirement and reviving the value under its key.
func decodeEntry(p []byte, m map[string]Value, rev Transform, depth int) ([]byte, error) {
	if len(p) < 1 {
		return p, ErrShortBytes
	}
	if getMajorType(p[0]) != majorTypeText {
		return p, ErrMapKeyNotText
	}
	kb, o, err := readByteRun(p, majorTypeText)
	if err != nil {
		return p, err
	}
	if ValidateUTF8OnDecode && !isUTF8Valid(kb) {
		return p, ErrInvalidUTF8
	}
	key := string(kb)
	val, o2, err := decodeValue(o, rev, depth+1)
	if err != nil {
		return p, err
	}
	if val.kind == breakKind {
		return p, ErrUnexpectedBreak
	}
	m[key] = rev.apply(key, val)
	return o2, nil
}

// unsignedValue maps a decoded magnitude to the right numeric arm.
func unsignedValue(m uint64) Value {
	if m < maxSafeInt {
		return Int(int64(m))
	}
	return Value{kind: BigNumKind, big: new(big.Int).SetUint64(m)}
}

// negativeValue maps a decoded magnitude m to -1-m, promoting to the
// big.Int arm when m is at or beyond the safe-integer boundary. The
// arithmetic is exact for the full m range up to 2^64-1 (-2^64).
func negativeValue(m uint64) Value {
	if m < maxSafeInt {
		return Int(-1 - int64(m))
	}
	z := new(big.Int).SetUint64(m)
	z.Add(z, bigOne)
	z.Neg(z)
	return Value{kind: BigNumKind, big: z}
}

var bigOne = big.NewInt(1)

// readByteRun reads a length-prefixed byte run of the given major type
// (byte string or text string), returning a copy of the payload so the
// produced Value never aliases the input buffer. Indefinite-length
// runs concatenate their definite chunks.
func readByteRun(b []byte, major uint8) ([]byte, []byte, error) {
	info := getAddInfo(b[0])
	p := b[1:]
	if info == addInfoIndefinite {
		var out []byte
		for {
			if len(p) < 1 {
				return nil, b, ErrShortBytes
			}
			if p[0] == makeByte(majorTypeSimple, simpleBreak) {
				return out, p[1:], nil
			}
			if getMajorType(p[0]) != major || getAddInfo(p[0]) == addInfoIndefinite {
				return nil, b, DecodingError{msg: "indefinite-length chunk must be a definite-length string"}
			}
			chunk, o, err := readByteRun(p, major)
			if err != nil {
				return nil, b, err
			}
			out = append(out, chunk...)
			p = o
		}
	}
	n, o, err := readArg(info, p)
	if err != nil {
		return nil, b, err
	}
	if n > uint64(len(o)) {
		return nil, b, ErrShortBytes
	}
	out := make([]byte, n)
	copy(out, o[:n])
	return out, o[n:], nil
}

// minCap bounds pre-allocation from attacker-controlled lengths.
func minCap(n uint64) int {
	const maxPrealloc = 1 << 16
	if n > maxPrealloc {
		return maxPrealloc
	}
	return int(n)
}
