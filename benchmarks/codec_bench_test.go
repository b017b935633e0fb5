package benchmarks

import (
	"testing"

	fxcbor "github.com/fxamacker/cbor/v2"
	msgp "github.com/tinylib/msgp/msgp"

	cbor "github.com/synadia-labs/cborval/runtime"
)

// Encode/decode benchmarks comparing the Value codec against
// fxamacker/cbor for the same CBOR documents, and against
// tinylib/msgp's MessagePack runtime for primitive appends. The msgp
// numbers are not apples-to-apples (different wire format) but track
// the cost of the shared append-style buffer discipline.

func benchDoc() cbor.Value {
	return cbor.Map(map[string]cbor.Value{
		"name":  cbor.Text("object-store-chunk"),
		"seq":   cbor.Int(987654321),
		"final": cbor.Bool(true),
		"data":  cbor.Bytes(make([]byte, 64)),
		"parts": cbor.Array(cbor.Int(1), cbor.Int(2), cbor.Int(3), cbor.Int(4)),
	})
}

func benchDocGo() map[string]any {
	return map[string]any{
		"name":  "object-store-chunk",
		"seq":   int64(987654321),
		"final": true,
		"data":  make([]byte, 64),
		"parts": []any{int64(1), int64(2), int64(3), int64(4)},
	}
}

func BenchmarkEncodeValue(b *testing.B) {
	v := benchDoc()
	var out []byte
	var err error
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out, err = cbor.AppendValue(out[:0], v)
		if err != nil {
			b.Fatal(err)
		}
	}
	_ = out
}

func BenchmarkEncodeFxamacker(b *testing.B) {
	v := benchDocGo()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := fxcbor.Marshal(v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeValue(b *testing.B) {
	enc, err := cbor.Encode(benchDoc())
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := cbor.Decode(enc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeFxamacker(b *testing.B) {
	enc, err := cbor.Encode(benchDoc())
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var out any
		if err := fxcbor.Unmarshal(enc, &out); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeWithReviver(b *testing.B) {
	enc, err := cbor.Encode(benchDoc())
	if err != nil {
		b.Fatal(err)
	}
	identity := func(key string, v cbor.Value) cbor.Value { return v }
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := cbor.DecodeWithReviver(enc, identity); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncodeDeterministic(b *testing.B) {
	v := benchDoc()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := cbor.EncodeDeterministic(v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAppendInt(b *testing.B) {
	v := cbor.Int(987654321)
	var out []byte
	var err error
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out, err = cbor.AppendValue(out[:0], v)
		if err != nil {
			b.Fatal(err)
		}
	}
	_ = out
}

func BenchmarkMsgpAppendInt(b *testing.B) {
	var out []byte
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = msgp.AppendInt64(out[:0], 987654321)
	}
	_ = out
}

func BenchmarkAppendText(b *testing.B) {
	v := cbor.Text("hello world")
	var out []byte
	var err error
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out, err = cbor.AppendValue(out[:0], v)
		if err != nil {
			b.Fatal(err)
		}
	}
	_ = out
}

func BenchmarkMsgpAppendString(b *testing.B) {
	var out []byte
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = msgp.AppendString(out[:0], "hello world")
	}
	_ = out
}

func BenchmarkSkip(b *testing.B) {
	enc, err := cbor.Encode(benchDoc())
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := cbor.Skip(enc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDiagBytes(b *testing.B) {
	enc, err := cbor.Encode(benchDoc())
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := cbor.DiagBytes(enc); err != nil {
			b.Fatal(err)
		}
	}
}
