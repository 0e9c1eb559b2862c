// Package safeconv provides bounds-checked parsing for 8-bit wire fields.
package safeconv

import (
	"errors"
	"fmt"
	"strconv"
)

// noSuccessor is the wire sentinel declaring "no record follows".
const noSuccessor = "-1"

// uint8Bits is the bit size passed to strconv for 8-bit fields.
const uint8Bits = 8

// ErrNotUint8 indicates a token is not a decimal integer in [0, 255].
var ErrNotUint8 = errors.New("not an 8-bit unsigned integer")

// ParseUint8 parses a decimal token into a uint8.
// Any non-decimal token or a value above 255 fails with ErrNotUint8.
func ParseUint8(token string) (uint8, error) {
	v, err := strconv.ParseUint(token, 10, uint8Bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotUint8, token)
	}

	return uint8(v), nil
}

// ParseOptionalUint8 parses a token that is either a uint8 or the literal
// sentinel "-1" meaning "absent". The second return value reports whether a
// value is present.
func ParseOptionalUint8(token string) (uint8, bool, error) {
	if token == noSuccessor {
		return 0, false, nil
	}

	v, err := ParseUint8(token)
	if err != nil {
		return 0, false, err
	}

	return v, true, nil
}
