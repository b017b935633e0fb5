package tests

import (
	"testing"

	cbor "github.com/synadia-labs/cborval/runtime"
)

// FuzzDecode throws arbitrary bytes at every read-side entrypoint and
// checks the re-encode property on anything that decodes cleanly.
func FuzzDecode(f *testing.F) {
	f.Add([]byte{0xa1, 0x61, 0x61, 0x01})             // {"a": 1}
	f.Add([]byte{0x83, 0x01, 0x02, 0x03})             // [1, 2, 3]
	f.Add([]byte{0x9f, 0x01, 0xff})                   // [_ 1]
	f.Add([]byte{0xd9, 0xd9, 0xf7, 0x00})             // 55799(0)
	f.Add([]byte{0x3b, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	f.Add([]byte{0x7f, 0x62, 0x65, 0x76, 0xff})       // indefinite text
	f.Add([]byte{0xff, 0x00})                         // stray break

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("panic on %x: %v", data, r)
			}
		}()

		_, _ = cbor.ValidateWellFormedBytes(data)
		_, _ = cbor.Skip(data)
		_, _, _ = cbor.DiagBytes(data)
		_, _, _ = cbor.ToJSONBytes(data)

		v, rest, err := cbor.ReadValueBytes(data)
		if err != nil {
			return
		}
		// Anything that decodes must re-encode, and the round trip
		// must preserve structural equality.
		enc, err := cbor.Encode(v)
		if err != nil {
			t.Fatalf("re-encode of %x failed: %v", data, err)
		}
		back, err := cbor.Decode(enc)
		if err != nil {
			t.Fatalf("re-decode of %x failed: %v", enc, err)
		}
		if !back.Equal(v) {
			t.Fatalf("round trip changed value: %s -> %s", v, back)
		}
		// The decoder and the skipper must agree on item extent.
		skipped, err := cbor.Skip(data)
		if err != nil {
			t.Fatalf("Skip failed on decodable input %x: %v", data, err)
		}
		if len(skipped) != len(rest) {
			t.Fatalf("Skip consumed %d bytes, decoder %d",
				len(data)-len(skipped), len(data)-len(rest))
		}
	})
}
