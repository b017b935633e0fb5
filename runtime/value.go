package cbor

import (
	"bytes"
	"math/big"
	"sort"
	"strconv"
)

// Kind identifies the arm of a Value.
type Kind uint8

// Value kinds, one per representable shape.
const (
	InvalidKind Kind = iota

	IntKind       // integer within the safe int64 range
	BigNumKind    // arbitrary-precision integer
	TextKind      // UTF-8 text string
	BytesKind     // byte string
	ArrayKind     // ordered sequence
	MapKind       // string-keyed mapping
	BoolKind      // true / false
	NullKind      // null
	UndefinedKind // undefined

	// breakKind marks the indefinite-length stop code during decode.
	// It never appears in a Value returned to a caller.
	breakKind
)

// String implements fmt.Stringer
func (k Kind) String() string {
	switch k {
	case IntKind:
		return "int"
	case BigNumKind:
		return "bignum"
	case TextKind:
		return "text"
	case BytesKind:
		return "bytes"
	case ArrayKind:
		return "array"
	case MapKind:
		return "map"
	case BoolKind:
		return "bool"
	case NullKind:
		return "null"
	case UndefinedKind:
		return "undefined"
	default:
		return "<invalid>"
	}
}

// Value is the closed union over every shape this codec can represent
// on the wire: integers (native or arbitrary-precision), text, byte
// strings, arrays, string-keyed maps, booleans, null and undefined.
// The zero Value is invalid; use the constructors.
//
// Values are compared with Equal, never with ==: the container arms
// hold slices and maps.
type Value struct {
	kind Kind
	num  int64
	big  *big.Int
	str  string
	bin  []byte
	arr  []Value
	m    map[string]Value
}

// Null is the CBOR null value.
var Null = Value{kind: NullKind}

// Undefined is the CBOR undefined value.
var Undefined = Value{kind: UndefinedKind}

// breakValue is the internal indefinite-length terminator.
var breakValue = Value{kind: breakKind}

// Int returns an integer Value. The int64 range is always below the
// bignum promotion threshold in magnitude terms that matter for
// encoding, so no normalization is needed here.
func Int(i int64) Value { return Value{kind: IntKind, num: i} }

// BigNum returns an arbitrary-precision integer Value. Magnitudes
// below the safe-integer boundary normalize into the int64 arm,
// mirroring the decode-side promotion threshold, so that structurally
// equal Values decode and construct identically. Nil yields Null.
func BigNum(z *big.Int) Value {
	if z == nil {
		return Null
	}
	if z.IsInt64() {
		if i := z.Int64(); i < maxSafeInt && i >= -maxSafeInt {
			return Value{kind: IntKind, num: i}
		}
	}
	return Value{kind: BigNumKind, big: new(big.Int).Set(z)}
}

// Text returns a text-string Value.
func Text(s string) Value { return Value{kind: TextKind, str: s} }

// Bytes returns a byte-string Value. The slice is not copied; callers
// must not mutate it afterwards.
func Bytes(b []byte) Value { return Value{kind: BytesKind, bin: b} }

// Array returns an array Value over the given elements.
func Array(elems ...Value) Value { return Value{kind: ArrayKind, arr: elems} }

// Map returns a map Value. The map is not copied.
func Map(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: MapKind, m: m}
}

// Bool returns a boolean Value.
func Bool(v bool) Value {
	var n int64
	if v {
		n = 1
	}
	return Value{kind: BoolKind, num: n}
}

// Kind returns the arm of the union this Value occupies.
func (v Value) Kind() Kind { return v.kind }

// Int returns the native integer arm and reports whether that was the
// underlying kind.
func (v Value) Int() (int64, bool) { return v.num, v.kind == IntKind }

// BigNum returns the integer as a big.Int regardless of which numeric
// arm holds it, and reports whether the Value is numeric at all.
func (v Value) BigNum() (*big.Int, bool) {
	switch v.kind {
	case IntKind:
		return big.NewInt(v.num), true
	case BigNumKind:
		return new(big.Int).Set(v.big), true
	default:
		return nil, false
	}
}

// Text returns the text arm and reports whether that was the kind.
func (v Value) Text() (string, bool) { return v.str, v.kind == TextKind }

// Bytes returns the byte-string arm and reports whether that was the
// kind. The returned slice is the Value's backing storage.
func (v Value) Bytes() ([]byte, bool) { return v.bin, v.kind == BytesKind }

// Array returns the array arm and reports whether that was the kind.
func (v Value) Array() ([]Value, bool) { return v.arr, v.kind == ArrayKind }

// Map returns the map arm and reports whether that was the kind.
func (v Value) Map() (map[string]Value, bool) { return v.m, v.kind == MapKind }

// Bool returns the boolean arm and reports whether that was the kind.
func (v Value) Bool() (bool, bool) { return v.num != 0, v.kind == BoolKind }

// IsNull reports whether the Value is null.
func (v Value) IsNull() bool { return v.kind == NullKind }

// IsUndefined reports whether the Value is undefined.
func (v Value) IsUndefined() bool { return v.kind == UndefinedKind }

// IsValid reports whether the Value occupies any arm of the union.
func (v Value) IsValid() bool { return v.kind != InvalidKind && v.kind != breakKind }

// Equal reports structural equality: byte strings compare by content,
// containers recursively, and the two numeric arms compare by value
// (an Int and a BigNum holding the same integer are equal).
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		// The only cross-kind equality is numeric.
		vz, vok := v.BigNum()
		oz, ook := o.BigNum()
		return vok && ook && vz.Cmp(oz) == 0
	}
	switch v.kind {
	case IntKind:
		return v.num == o.num
	case BigNumKind:
		return v.big.Cmp(o.big) == 0
	case TextKind:
		return v.str == o.str
	case BytesKind:
		return bytes.Equal(v.bin, o.bin)
	case BoolKind:
		return v.num == o.num
	case NullKind, UndefinedKind, breakKind:
		return true
	case ArrayKind:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case MapKind:
		if len(v.m) != len(o.m) {
			return false
		}
		for k, vv := range v.m {
			ov, ok := o.m[k]
			if !ok || !vv.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders the Value in a diagnostic-notation style, mainly for
// test failure output.
func (v Value) String() string {
	switch v.kind {
	case IntKind:
		return strconv.FormatInt(v.num, 10)
	case BigNumKind:
		return v.big.String()
	case TextKind:
		return strconv.Quote(v.str)
	case BytesKind:
		return "h'" + hexString(v.bin) + "'"
	case BoolKind:
		if v.num != 0 {
			return "true"
		}
		return "false"
	case NullKind:
		return "null"
	case UndefinedKind:
		return "undefined"
	case ArrayKind:
		out := "["
		for i, e := range v.arr {
			if i > 0 {
				out += ", "
			}
			out += e.String()
		}
		return out + "]"
	case MapKind:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := "{"
		for i, k := range keys {
			if i > 0 {
				out += ", "
			}
			out += strconv.Quote(k) + ": " + v.m[k].String()
		}
		return out + "}"
	default:
		return "<invalid>"
	}
}

const hexDigits = "0123456789abcdef"

func hexString(b []byte) string {
	out := make([]byte, 0, len(b)*2)
	for _, c := range b {
		out = append(out, hexDigits[c>>4], hexDigits[c&0xf])
	}
	return string(out)
}
