package cbor

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
)

// FromInterface converts a Go value into a Value. It accepts the
// shapes produced by encoding/json (map[string]any, []any, string,
// bool, nil, json.Number, float64) plus the obvious Go integer, byte
// and Value types. Fractional floats are rejected: the Value model is
// integer-only.
func FromInterface(i any) (Value, error) {
	if i == nil {
		return Null, nil
	}
	switch v := i.(type) {
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case string:
		return Text(v), nil
	case []byte:
		return Bytes(v), nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return BigNum(new(big.Int).SetUint64(uint64(v))), nil
	case uint8:
		return Int(int64(v)), nil
	case uint16:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case uint64:
		return BigNum(new(big.Int).SetUint64(v)), nil
	case *big.Int:
		return BigNum(v), nil
	case float32:
		return floatValue(float64(v))
	case float64:
		return floatValue(v)
	case json.Number:
		if z, ok := new(big.Int).SetString(v.String(), 10); ok {
			return BigNum(z), nil
		}
		f, err := v.Float64()
		if err != nil {
			return Value{}, EncodingError{msg: "cannot convert number " + quoteStr(v.String())}
		}
		return floatValue(f)
	case []Value:
		return Array(v...), nil
	case map[string]Value:
		return Map(v), nil
	case []any:
		elems := make([]Value, len(v))
		for i, e := range v {
			ev, err := FromInterface(e)
			if err != nil {
				return Value{}, err
			}
			elems[i] = ev
		}
		return Value{kind: ArrayKind, arr: elems}, nil
	case map[string]any:
		m := make(map[string]Value, len(v))
		for k, e := range v {
			ev, err := FromInterface(e)
			if err != nil {
				return Value{}, err
			}
			m[k] = ev
		}
		return Value{kind: MapKind, m: m}, nil
	default:
		return Value{}, EncodingError{msg: "type " + quoteStr(reflect.TypeOf(i).String()) + " not supported"}
	}
}

// floatValue admits a float only when it is an exact integer.
func floatValue(f float64) (Value, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return Value{}, EncodingError{msg: "cannot encode non-integer number"}
	}
	if f >= -maxSafeInt && f < maxSafeInt {
		return Int(int64(f)), nil
	}
	z, _ := big.NewFloat(f).Int(nil)
	return BigNum(z), nil
}

// Interface converts a Value back into plain Go types: int64 or
// *big.Int for numbers, string, []byte, []any, map[string]any, bool,
// and nil for both null and undefined.
func (v Value) Interface() any {
	switch v.kind {
	case IntKind:
		return v.num
	case BigNumKind:
		return new(big.Int).Set(v.big)
	case TextKind:
		return v.str
	case BytesKind:
		return v.bin
	case BoolKind:
		return v.num != 0
	case ArrayKind:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Interface()
		}
		return out
	case MapKind:
		out := make(map[string]any, len(v.m))
		for k, e := range v.m {
			out[k] = e.Interface()
		}
		return out
	default:
		return nil
	}
}
