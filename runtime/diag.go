package cbor

import (
	"encoding/hex"
	"math"
	"strconv"
)

// DiagBytes renders the next CBOR item in RFC 8949 diagnostic notation
// and returns the remaining bytes. Like Skip, it accepts the full wire
// grammar, including items Decode rejects.
func DiagBytes(b []byte) (string, []byte, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	rest, err := diagOne(bb, b, 0)
	if err != nil {
		return "", b, err
	}
	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	return string(out), rest, nil
}

// Diag renders a Value in diagnostic notation by way of its encoding.
func Diag(v Value) (string, error) {
	enc, err := Encode(v)
	if err != nil {
		return "", err
	}
	s, _, err := DiagBytes(enc)
	return s, err
}

func diagOne(buf *ByteBuffer, b []byte, depth int) ([]byte, error) {
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
		u, o, err := readArg(info, b[1:])
		if err != nil {
			return b, err
		}
		buf.WriteString(strconv.FormatUint(u, 10))
		return o, nil

	case majorTypeNegInt:
		u, o, err := readArg(info, b[1:])
		if err != nil {
			return b, err
		}
		if u > math.MaxInt64 {
			// -1-u does not fit int64; render via the big path.
			buf.WriteString(negativeValue(u).String())
			return o, nil
		}
		buf.WriteString(strconv.FormatInt(-1-int64(u), 10))
		return o, nil

	case majorTypeBytes:
		bs, o, err := readByteRun(b, majorTypeBytes)
		if err != nil {
			return b, err
		}
		buf.WriteString("h'")
		d := buf.Extend(hex.EncodedLen(len(bs)))
		hex.Encode(d, bs)
		buf.WriteString("'")
		return o, nil

	case majorTypeText:
		s, o, err := readByteRun(b, majorTypeText)
		if err != nil {
			return b, err
		}
		buf.WriteString(strconv.Quote(string(s)))
		return o, nil

	case majorTypeArray, majorTypeMap:
		openBr, closeBr := "[", "]"
		itemsPer := 1
		if major == majorTypeMap {
			openBr, closeBr = "{", "}"
			itemsPer = 2
		}
		writeEntry := func(p []byte) ([]byte, error) {
			p, err := diagOne(buf, p, depth+1)
			if err != nil {
				return p, err
			}
			if itemsPer == 2 {
				buf.WriteString(": ")
				p, err = diagOne(buf, p, depth+1)
			}
			return p, err
		}
		if info == addInfoIndefinite {
			buf.WriteString(openBr + "_")
			p := b[1:]
			first := true
			for {
				if len(p) < 1 {
					return b, ErrShortBytes
				}
				if p[0] == makeByte(majorTypeSimple, simpleBreak) {
					buf.WriteString(closeBr)
					return p[1:], nil
				}
				if !first {
					buf.WriteString(", ")
				} else {
					buf.WriteString(" ")
					first = false
				}
				var err error
				p, err = writeEntry(p)
				if err != nil {
					return b, err
				}
			}
		}
		sz, p, err := readArg(info, b[1:])
		if err != nil {
			return b, err
		}
		buf.WriteString(openBr)
		for i := uint64(0); i < sz; i++ {
			if i > 0 {
				buf.WriteString(", ")
			}
			p, err = writeEntry(p)
			if err != nil {
				return b, err
			}
		}
		buf.WriteString(closeBr)
		return p, nil

	case majorTypeTag:
		tag, o, err := readArg(info, b[1:])
		if err != nil {
			return b, err
		}
		buf.WriteString(strconv.FormatUint(tag, 10))
		buf.WriteString("(")
		o2, err := diagOne(buf, o, depth+1)
		if err != nil {
			return b, err
		}
		buf.WriteString(")")
		return o2, nil

	default: // majorTypeSimple
		switch info {
		case simpleFalse:
			buf.WriteString("false")
			return b[1:], nil
		case simpleTrue:
			buf.WriteString("true")
			return b[1:], nil
		case simpleNull:
			buf.WriteString("null")
			return b[1:], nil
		case simpleUndefined:
			buf.WriteString("undefined")
			return b[1:], nil
		case simpleFloat16, simpleFloat32, simpleFloat64:
			f, o, err := readWireFloat(b)
			if err != nil {
				return b, err
			}
			buf.WriteString(formatFloatDiag(f))
			return o, nil
		case addInfoUint8:
			if len(b) < 2 {
				return b, ErrShortBytes
			}
			buf.WriteString("simple(" + strconv.Itoa(int(b[1])) + ")")
			return b[2:], nil
		default:
			if info <= addInfoDirect {
				buf.WriteString("simple(" + strconv.Itoa(int(info)) + ")")
				return b[1:], nil
			}
			return b, errBadAddInfo(info)
		}
	}
}

// readWireFloat reads a half, single or double precision float for
// diagnostic rendering. The Value model carries no floats; this exists
// only so tooling can describe foreign streams.
func readWireFloat(b []byte) (float64, []byte, error) {
	switch getAddInfo(b[0]) {
	case simpleFloat16:
		if len(b) < 3 {
			return 0, b, ErrShortBytes
		}
		return float16ToFloat64(be.Uint16(b[1:])), b[3:], nil
	case simpleFloat32:
		if len(b) < 5 {
			return 0, b, ErrShortBytes
		}
		return float64(math.Float32frombits(be.Uint32(b[1:]))), b[5:], nil
	default:
		if len(b) < 9 {
			return 0, b, ErrShortBytes
		}
		return math.Float64frombits(be.Uint64(b[1:])), b[9:], nil
	}
}

// float16ToFloat64 converts IEEE 754 binary16 bits to float64.
func float16ToFloat64(h uint16) float64 {
	sign := float64(1)
	if h>>15 != 0 {
		sign = -1
	}
	exp := int(h>>10) & 0x1f
	mant := float64(h & 0x3ff)
	switch exp {
	case 0:
		return sign * math.Ldexp(mant, -24)
	case 0x1f:
		if mant != 0 {
			return math.NaN()
		}
		return sign * math.Inf(1)
	default:
		return sign * math.Ldexp(mant+1024, exp-25)
	}
}

// formatFloatDiag renders a float the way the RFC examples do.
func formatFloatDiag(f float64) string {
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// Diagnostic notation keeps a decimal point on integral floats.
	for i := 0; i < len(s); i++ {
		if s[i] == '.' || s[i] == 'e' || s[i] == '+' {
			return s
		}
	}
	return s + ".0"
}
