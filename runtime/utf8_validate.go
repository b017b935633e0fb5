package cbor

import "unicode/utf8"

// isUTF8Valid reports whether b is valid UTF-8. Kept as a var so a
// faster validator (e.g. a SIMD build) can swap it out behind a build
// tag without touching the decode paths that call it.
var isUTF8Valid = func(b []byte) bool { return utf8.Valid(b) }
