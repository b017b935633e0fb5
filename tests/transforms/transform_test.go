package tests

import (
	"encoding/hex"
	"sort"
	"testing"

	cbor "github.com/synadia-labs/cborval/runtime"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func double(key string, v cbor.Value) cbor.Value {
	if n, ok := v.Int(); ok {
		return cbor.Int(n * 2)
	}
	return v
}

// TestReviverDoublesLeaves decodes {"a":1,"b":2} with a doubling
// reviver and expects {"a":2,"b":4}.
func TestReviverDoublesLeaves(t *testing.T) {
	b := mustHex(t, "a2616101616202")
	v, err := cbor.DecodeWithReviver(b, double)
	if err != nil {
		t.Fatalf("DecodeWithReviver error: %v", err)
	}
	want := cbor.Map(map[string]cbor.Value{"a": cbor.Int(2), "b": cbor.Int(4)})
	if !v.Equal(want) {
		t.Fatalf("revived = %s, want %s", v, want)
	}
}

// TestReplacerMatchesRevivedDecode encodes with a doubling replacer
// and expects the plain decode of the result to equal the revived
// decode of the original encoding.
func TestReplacerMatchesRevivedDecode(t *testing.T) {
	v := cbor.Map(map[string]cbor.Value{
		"a": cbor.Int(1),
		"b": cbor.Array(cbor.Int(2), cbor.Int(3)),
	})
	enc, err := cbor.EncodeWithReplacer(v, double)
	if err != nil {
		t.Fatalf("EncodeWithReplacer error: %v", err)
	}
	got, err := cbor.Decode(enc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	plain, err := cbor.Encode(v)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	want, err := cbor.DecodeWithReviver(plain, double)
	if err != nil {
		t.Fatalf("DecodeWithReviver error: %v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("replacer result %s != reviver result %s", got, want)
	}
}

// TestReviverKeyContext records the key each node is revived under:
// map keys, decimal array indices, and the empty root key last.
func TestReviverKeyContext(t *testing.T) {
	// {"list": [10, 20], "one": 1}
	b := mustHex(t, "a2646c697374820a14636f6e6501")
	var keys []string
	v, err := cbor.DecodeWithReviver(b, func(key string, v cbor.Value) cbor.Value {
		keys = append(keys, key)
		return v
	})
	if err != nil {
		t.Fatalf("DecodeWithReviver error: %v", err)
	}
	if !v.IsValid() {
		t.Fatal("revived value invalid")
	}

	if got := keys[len(keys)-1]; got != "" {
		t.Fatalf("last revival key = %q, want root key \"\"", got)
	}
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	want := []string{"", "0", "1", "list", "one"}
	if len(sorted) != len(want) {
		t.Fatalf("revival keys = %v, want %v", sorted, want)
	}
	for i := range want {
		if sorted[i] != want[i] {
			t.Fatalf("revival keys = %v, want %v", sorted, want)
		}
	}
}

// TestReviverBottomUp asserts children are revived before their
// parent container completes: when the parent array is revived its
// elements already carry the child transformation.
func TestReviverBottomUp(t *testing.T) {
	b := mustHex(t, "820102") // [1, 2]
	v, err := cbor.DecodeWithReviver(b, func(key string, v cbor.Value) cbor.Value {
		if arr, ok := v.Array(); ok && key == "" {
			for i, e := range arr {
				if n, _ := e.Int(); n != int64(i+1)*2 {
					t.Fatalf("element %d not yet doubled at root revival: %s", i, e)
				}
			}
			return v
		}
		return double(key, v)
	})
	if err != nil {
		t.Fatalf("DecodeWithReviver error: %v", err)
	}
	if !v.Equal(cbor.Array(cbor.Int(2), cbor.Int(4))) {
		t.Fatalf("result = %s", v)
	}
}

// TestReplacerTopDown asserts the replacer sees containers before
// their elements and that its output is traversed recursively.
func TestReplacerTopDown(t *testing.T) {
	var order []string
	v := cbor.Array(cbor.Int(1), cbor.Array(cbor.Int(2)))
	enc, err := cbor.EncodeWithReplacer(v, func(key string, v cbor.Value) cbor.Value {
		order = append(order, key)
		return v
	})
	if err != nil {
		t.Fatalf("EncodeWithReplacer error: %v", err)
	}
	want := []string{"", "0", "1", "0"}
	if len(order) != len(want) {
		t.Fatalf("replacement order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("replacement order = %v, want %v", order, want)
		}
	}
	got, err := cbor.Decode(enc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if !got.Equal(v) {
		t.Fatalf("identity replacer changed value: %s", got)
	}
}

// TestReplacerRewritesSubtree swaps a whole subtree for a scalar and
// expects the substitution in the wire bytes.
func TestReplacerRewritesSubtree(t *testing.T) {
	v := cbor.Map(map[string]cbor.Value{
		"secret": cbor.Map(map[string]cbor.Value{"pin": cbor.Int(1234)}),
	})
	enc, err := cbor.EncodeWithReplacer(v, func(key string, v cbor.Value) cbor.Value {
		if key == "secret" {
			return cbor.Text("redacted")
		}
		return v
	})
	if err != nil {
		t.Fatalf("EncodeWithReplacer error: %v", err)
	}
	got, err := cbor.Decode(enc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	want := cbor.Map(map[string]cbor.Value{"secret": cbor.Text("redacted")})
	if !got.Equal(want) {
		t.Fatalf("result = %s, want %s", got, want)
	}
}

// TestNilTransformsAreIdentity pins that the nil Transform is a safe
// no-op on both paths.
func TestNilTransformsAreIdentity(t *testing.T) {
	v := cbor.Array(cbor.Int(1), cbor.Null)
	enc, err := cbor.EncodeWithReplacer(v, nil)
	if err != nil {
		t.Fatalf("EncodeWithReplacer error: %v", err)
	}
	got, err := cbor.DecodeWithReviver(enc, nil)
	if err != nil {
		t.Fatalf("DecodeWithReviver error: %v", err)
	}
	if !got.Equal(v) {
		t.Fatalf("nil transforms changed value: %s", got)
	}
}

// TestReviverSeesIndefiniteElements checks the reviver runs per
// element for indefinite-length containers too.
func TestReviverSeesIndefiniteElements(t *testing.T) {
	b := mustHex(t, "9f010203ff")
	v, err := cbor.DecodeWithReviver(b, double)
	if err != nil {
		t.Fatalf("DecodeWithReviver error: %v", err)
	}
	if !v.Equal(cbor.Array(cbor.Int(2), cbor.Int(4), cbor.Int(6))) {
		t.Fatalf("result = %s", v)
	}
}
