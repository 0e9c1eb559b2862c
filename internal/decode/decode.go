// Package decode turns raw wire payload text into bytes according to a
// per-record encoding tag.
package decode

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// Encoding identifies how a record payload is encoded on the wire.
type Encoding uint8

const (
	// EncodingASCII passes the payload through byte for byte.
	EncodingASCII Encoding = 0
	// EncodingHex decodes pairs of hexadecimal digits, high nibble first.
	EncodingHex Encoding = 1
)

// ErrUnknownEncoding indicates an encoding tag outside the known set.
var ErrUnknownEncoding = errors.New("unknown encoding")

// ErrInvalidHex indicates a payload that is not valid even-length hex.
var ErrInvalidHex = errors.New("invalid hex payload")

// EncodingFromTag maps a wire encoding tag to an Encoding.
// Tags outside the known set fail with ErrUnknownEncoding.
func EncodingFromTag(tag uint8) (Encoding, error) {
	switch enc := Encoding(tag); enc {
	case EncodingASCII, EncodingHex:
		return enc, nil
	default:
		return 0, fmt.Errorf("%w: tag %d", ErrUnknownEncoding, tag)
	}
}

// String returns the lowercase name of the encoding.
func (e Encoding) String() string {
	switch e {
	case EncodingASCII:
		return "ascii"
	case EncodingHex:
		return "hex"
	default:
		return fmt.Sprintf("encoding(%d)", uint8(e))
	}
}

// Decode converts payload text into bytes under the given encoding.
// It is pure: same inputs always yield the same output, and nothing is mutated.
func Decode(enc Encoding, text string) ([]byte, error) {
	switch enc {
	case EncodingASCII:
		return []byte(text), nil
	case EncodingHex:
		body, err := hex.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHex, text)
		}

		return body, nil
	default:
		return nil, fmt.Errorf("%w: tag %d", ErrUnknownEncoding, uint8(enc))
	}
}
