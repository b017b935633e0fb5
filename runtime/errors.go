package cbor

import "strconv"

// Error is the interface satisfied by all errors that originate from
// this package.
type Error interface {
	error

	// Resumable returns whether or not the error means that the stream
	// of data is malformed and the information is unrecoverable.
	Resumable() bool
}

// DecodingError is returned when the input bytes are malformed or
// truncated: an empty buffer where a header is expected, a reserved
// additional-info value, an unsupported tag number, a non-text map
// key, or a declared length running past the end of the input.
type DecodingError struct {
	msg string
}

// Error implements the error interface.
func (e DecodingError) Error() string { return "cbor: " + e.msg }

// Resumable is always false for DecodingErrors: a malformed stream
// cannot be re-synchronized.
func (e DecodingError) Resumable() bool { return false }

// EncodingError is returned when a Value cannot be represented on the
// wire: an invalid Value, an unrecognized simple value, or an integer
// magnitude exceeding the 64-bit unsigned range.
type EncodingError struct {
	msg string
}

// Error implements the error interface.
func (e EncodingError) Error() string { return "cbor: " + e.msg }

// Resumable is always true for EncodingErrors: the output buffer is
// discarded but the caller's Value is untouched.
func (e EncodingError) Resumable() bool { return true }

// ErrShortBytes is returned when the slice being decoded is too short
// to contain the next data item.
var ErrShortBytes error = DecodingError{msg: "too few bytes left to read object"}

// ErrRecursion is returned when the recursion limit is reached. This
// should only realistically be seen on adversarial data trying to
// exhaust the stack.
var ErrRecursion error = DecodingError{msg: "recursion limit reached"}

// ErrInvalidUTF8 is returned when a text string contains invalid UTF-8
// and ValidateUTF8OnDecode is enabled.
var ErrInvalidUTF8 error = DecodingError{msg: "invalid UTF-8 in text string"}

// ErrMapKeyNotText is returned when a decoded map key is not a
// text string.
var ErrMapKeyNotText error = DecodingError{msg: "Map keys must be text strings"}

// ErrUnexpectedBreak is returned when a break stop code (0xff) appears
// outside an indefinite-length container.
var ErrUnexpectedBreak error = DecodingError{msg: "unexpected break code"}

func errUnsupportedTag(tag uint64) error {
	return DecodingError{msg: "Unsupported tag: " + strconv.FormatUint(tag, 10)}
}

func errBadSimple(val uint8) error {
	return DecodingError{msg: "unrecognized simple value: " + strconv.Itoa(int(val))}
}

func errBadAddInfo(info uint8) error {
	return DecodingError{msg: "reserved additional info: " + strconv.Itoa(int(info))}
}

// errValueTooLarge reports an integer magnitude that does not fit the
// 64-bit unsigned range. The magnitude is rendered in decimal so that
// callers matching on the message see the exact offending quantity.
func errValueTooLarge(magnitude string) error {
	return EncodingError{msg: "Value too large to encode: " + magnitude}
}

func errUnencodable(k Kind) error {
	return EncodingError{msg: "cannot encode value of kind " + quoteStr(k.String())}
}

func quoteStr(s string) string {
	return strconv.Quote(s)
}
