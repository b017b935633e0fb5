package cbor

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"sort"
	"strconv"
)

// ToJSONBytes converts the next CBOR item in b into a JSON encoding
// and returns the JSON bytes and remainder. Byte strings become
// standard base64 strings, integers beyond the safe range become
// decimal strings, and undefined becomes null. Floats are rendered
// numerically even though Decode does not model them, matching the
// wire-level reach of DiagBytes.
func ToJSONBytes(b []byte) ([]byte, []byte, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	rest, err := toJSON(bb, b, 0)
	if err != nil {
		return nil, b, err
	}
	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	return out, rest, nil
}

// ToJSON renders a Value as JSON under the same mapping as
// ToJSONBytes.
func ToJSON(v Value) ([]byte, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	if err := valueJSON(bb, v, 0); err != nil {
		return nil, err
	}
	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	return out, nil
}

func toJSON(buf *ByteBuffer, b []byte, depth int) ([]byte, error) {
	if depth > recursionLimit {
		return b, ErrRecursion
	}
	if len(b) < 1 {
		return b, ErrShortBytes
	}
	major := getMajorType(b[0])
	info := getAddInfo(b[0])

	switch major {
	case majorTypeUint:
		m, o, err := readArg(info, b[1:])
		if err != nil {
			return b, err
		}
		writeJSONInt(buf, unsignedValue(m))
		return o, nil

	case majorTypeNegInt:
		m, o, err := readArg(info, b[1:])
		if err != nil {
			return b, err
		}
		writeJSONInt(buf, negativeValue(m))
		return o, nil

	case majorTypeBytes:
		bs, o, err := readByteRun(b, majorTypeBytes)
		if err != nil {
			return b, err
		}
		buf.WriteByte('"')
		encodeBase64Std(buf, bs)
		buf.WriteByte('"')
		return o, nil

	case majorTypeText:
		bs, o, err := readByteRun(b, majorTypeText)
		if err != nil {
			return b, err
		}
		js, _ := json.Marshal(string(bs))
		buf.Write(js)
		return o, nil

	case majorTypeArray:
		buf.WriteByte('[')
		p := b[1:]
		if info == addInfoIndefinite {
			for first := true; ; first = false {
				if len(p) < 1 {
					return b, ErrShortBytes
				}
				if p[0] == makeByte(majorTypeSimple, simpleBreak) {
					buf.WriteByte(']')
					return p[1:], nil
				}
				if !first {
					buf.WriteByte(',')
				}
				var err error
				p, err = toJSON(buf, p, depth+1)
				if err != nil {
					return b, err
				}
			}
		}
		n, p, err := readArg(info, p)
		if err != nil {
			return b, err
		}
		for i := uint64(0); i < n; i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			p, err = toJSON(buf, p, depth+1)
			if err != nil {
				return b, err
			}
		}
		buf.WriteByte(']')
		return p, nil

	case majorTypeMap:
		buf.WriteByte('{')
		p := b[1:]
		if info == addInfoIndefinite {
			for first := true; ; first = false {
				if len(p) < 1 {
					return b, ErrShortBytes
				}
				if p[0] == makeByte(majorTypeSimple, simpleBreak) {
					buf.WriteByte('}')
					return p[1:], nil
				}
				if !first {
					buf.WriteByte(',')
				}
				var err error
				p, err = jsonEntry(buf, p, depth)
				if err != nil {
					return b, err
				}
			}
		}
		n, p, err := readArg(info, p)
		if err != nil {
			return b, err
		}
		for i := uint64(0); i < n; i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			p, err = jsonEntry(buf, p, depth)
			if err != nil {
				return b, err
			}
		}
		buf.WriteByte('}')
		return p, nil

	case majorTypeTag:
		tag, o, err := readArg(info, b[1:])
		if err != nil {
			return b, err
		}
		if tag != tagSelfDescribeCBOR {
			return b, errUnsupportedTag(tag)
		}
		return toJSON(buf, o, depth+1)

	case majorTypeSimple:
		switch info {
		case simpleFalse:
			buf.WriteString("false")
			return b[1:], nil
		case simpleTrue:
			buf.WriteString("true")
			return b[1:], nil
		case simpleNull, simpleUndefined:
			buf.WriteString("null")
			return b[1:], nil
		case simpleFloat16, simpleFloat32, simpleFloat64:
			f, o, err := readWireFloat(b)
			if err != nil {
				return b, err
			}
			buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
			return o, nil
		case simpleBreak:
			return b, ErrUnexpectedBreak
		default:
			return b, errBadSimple(info)
		}
	}
	return b, errBadSimple(info)
}

// jsonEntry renders one map entry; keys must be text strings.
func jsonEntry(buf *ByteBuffer, p []byte, depth int) ([]byte, error) {
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
	kj, _ := json.Marshal(string(kb))
	buf.Write(kj)
	buf.WriteByte(':')
	return toJSON(buf, o, depth+1)
}

func valueJSON(buf *ByteBuffer, v Value, depth int) error {
	if depth > recursionLimit {
		return ErrRecursion
	}
	switch v.kind {
	case IntKind, BigNumKind:
		writeJSONInt(buf, v)
	case TextKind:
		js, _ := json.Marshal(v.str)
		buf.Write(js)
	case BytesKind:
		buf.WriteByte('"')
		encodeBase64Std(buf, v.bin)
		buf.WriteByte('"')
	case BoolKind:
		if v.num != 0 {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case NullKind, UndefinedKind:
		buf.WriteString("null")
	case ArrayKind:
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := valueJSON(buf, e, depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case MapKind:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kj, _ := json.Marshal(k)
			buf.Write(kj)
			buf.WriteByte(':')
			if err := valueJSON(buf, v.m[k], depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return EncodingError{msg: "cannot render " + v.kind.String() + " as JSON"}
	}
	return nil
}

// writeJSONInt renders a numeric Value, quoting it as a string once it
// is past the range JSON consumers can hold exactly.
func writeJSONInt(buf *ByteBuffer, v Value) {
	if v.kind == IntKind {
		buf.WriteString(strconv.FormatInt(v.num, 10))
		return
	}
	buf.WriteByte('"')
	buf.WriteString(v.big.String())
	buf.WriteByte('"')
}

// FromJSON builds a Value from JSON text. Numbers parse through
// json.Number so large integers survive exactly; fractional numbers
// are rejected by FromInterface.
func FromJSON(j []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(j))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, DecodingError{msg: "invalid JSON: " + err.Error()}
	}
	return FromInterface(raw)
}

// encodeBase64Std writes standard base64 of src into buf.
func encodeBase64Std(buf *ByteBuffer, src []byte) {
	out := buf.Extend(base64.StdEncoding.EncodedLen(len(src)))
	base64.StdEncoding.Encode(out, src)
}
