package cbor

// Wire-level traversal. Skip and the well-formedness validators accept
// the full RFC 8949 grammar (floats, foreign tags, one-byte simple
// values), which is deliberately wider than what Decode materializes:
// tooling that inspects or reframes byte streams must not choke on
// constructs the Value model rejects.

// Skip skips over the next CBOR item and returns the remaining bytes.
func Skip(b []byte) ([]byte, error) {
	return skip(b, 0)
}

func skip(b []byte, depth int) ([]byte, error) {
	if depth > recursionLimit {
		return b, ErrRecursion
	}
	if len(b) < 1 {
		return b, ErrShortBytes
	}

	major := getMajorType(b[0])
	info := getAddInfo(b[0])

	switch major {
	case majorTypeUint, majorTypeNegInt, majorTypeTag:
		_, o, err := readArg(info, b[1:])
		if err != nil {
			return b, err
		}
		if major == majorTypeTag {
			return skip(o, depth+1)
		}
		return o, nil

	case majorTypeBytes, majorTypeText:
		if info == addInfoIndefinite {
			o := b[1:]
			for {
				if len(o) < 1 {
					return b, ErrShortBytes
				}
				if o[0] == makeByte(majorTypeSimple, simpleBreak) {
					return o[1:], nil
				}
				if getMajorType(o[0]) != major || getAddInfo(o[0]) == addInfoIndefinite {
					return b, DecodingError{msg: "indefinite-length chunk must be a definite-length string"}
				}
				sz, q, err := readArg(getAddInfo(o[0]), o[1:])
				if err != nil {
					return b, err
				}
				if sz > uint64(len(q)) {
					return b, ErrShortBytes
				}
				o = q[sz:]
			}
		}
		sz, o, err := readArg(info, b[1:])
		if err != nil {
			return b, err
		}
		if sz > uint64(len(o)) {
			return b, ErrShortBytes
		}
		return o[sz:], nil

	case majorTypeArray, majorTypeMap:
		itemsPer := 1
		if major == majorTypeMap {
			itemsPer = 2
		}
		if info == addInfoIndefinite {
			o := b[1:]
			for {
				if len(o) < 1 {
					return b, ErrShortBytes
				}
				if o[0] == makeByte(majorTypeSimple, simpleBreak) {
					return o[1:], nil
				}
				for j := 0; j < itemsPer; j++ {
					var err error
					o, err = skip(o, depth+1)
					if err != nil {
						return b, err
					}
				}
			}
		}
		sz, o, err := readArg(info, b[1:])
		if err != nil {
			return b, err
		}
		for i := uint64(0); i < sz; i++ {
			for j := 0; j < itemsPer; j++ {
				o, err = skip(o, depth+1)
				if err != nil {
					return b, err
				}
			}
		}
		return o, nil

	default: // majorTypeSimple
		switch info {
		case simpleFloat16:
			if len(b) < 3 {
				return b, ErrShortBytes
			}
			return b[3:], nil
		case simpleFloat32:
			if len(b) < 5 {
				return b, ErrShortBytes
			}
			return b[5:], nil
		case simpleFloat64:
			if len(b) < 9 {
				return b, ErrShortBytes
			}
			return b[9:], nil
		case addInfoUint8: // one-byte simple value (0xf8 xx)
			if len(b) < 2 {
				return b, ErrShortBytes
			}
			return b[2:], nil
		case simpleBreak:
			return b, ErrUnexpectedBreak
		default:
			if info <= addInfoDirect {
				return b[1:], nil
			}
			return b, errBadAddInfo(info)
		}
	}
}

// ValidateWellFormedBytes validates that the next CBOR data item in b
// is well-formed per RFC 8949 and returns the bytes after it. Checks
// performed:
//   - structural correctness of arrays, maps, tags, simple values
//   - string UTF-8 validity (for major type 3)
//   - rejection of the reserved additional info values 28, 29, 30
func ValidateWellFormedBytes(b []byte) (rest []byte, err error) {
	return validateWellFormed(b, 0)
}

// ValidateDocument validates that all items in b are well-formed until
// the input is exhausted.
func ValidateDocument(b []byte) error {
	var err error
	for len(b) > 0 {
		b, err = validateWellFormed(b, 0)
		if err != nil {
			return err
		}
	}
	return nil
}

func validateWellFormed(b []byte, depth int) ([]byte, error) {
	if depth > recursionLimit {
		return b, ErrRecursion
	}
	if len(b) < 1 {
		return b, ErrShortBytes
	}
	major := getMajorType(b[0])
	info := getAddInfo(b[0])

	if info >= 28 && info <= 30 {
		return b, errBadAddInfo(info)
	}

	switch major {
	case majorTypeText:
		if info == addInfoIndefinite {
			p := b[1:]
			for {
				if len(p) < 1 {
					return b, ErrShortBytes
				}
				if p[0] == makeByte(majorTypeSimple, simpleBreak) {
					return p[1:], nil
				}
				if getMajorType(p[0]) != majorTypeText || getAddInfo(p[0]) == addInfoIndefinite {
					return b, DecodingError{msg: "indefinite-length chunk must be a definite-length string"}
				}
				chunk, o, err := readByteRun(p, majorTypeText)
				if err != nil {
					return b, err
				}
				if !isUTF8Valid(chunk) {
					return b, ErrInvalidUTF8
				}
				p = o
			}
		}
		s, o, err := readByteRun(b, majorTypeText)
		if err != nil {
			return b, err
		}
		if !isUTF8Valid(s) {
			return b, ErrInvalidUTF8
		}
		return o, nil

	case majorTypeArray, majorTypeMap:
		itemsPer := 1
		if major == majorTypeMap {
			itemsPer = 2
		}
		if info == addInfoIndefinite {
			p := b[1:]
			for {
				if len(p) < 1 {
					return b, ErrShortBytes
				}
				if p[0] == makeByte(majorTypeSimple, simpleBreak) {
					return p[1:], nil
				}
				for j := 0; j < itemsPer; j++ {
					var err error
					p, err = validateWellFormed(p, depth+1)
					if err != nil {
						return b, err
					}
				}
			}
		}
		sz, p, err := readArg(info, b[1:])
		if err != nil {
			return b, err
		}
		for i := uint64(0); i < sz; i++ {
			for j := 0; j < itemsPer; j++ {
				p, err = validateWellFormed(p, depth+1)
				if err != nil {
					return b, err
				}
			}
		}
		return p, nil

	case majorTypeTag:
		_, o, err := readArg(info, b[1:])
		if err != nil {
			return b, err
		}
		return validateWellFormed(o, depth+1)

	default:
		// Integers, byte strings and simple values share Skip's checks.
		return skip(b, depth)
	}
}
