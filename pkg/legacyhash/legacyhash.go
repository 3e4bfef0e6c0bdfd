// Package legacyhash decodes the hex-pair identifiers embedded in the links
// mailed to professors before signed tokens existed.
//
// Each character of the identifier is shifted up by Offset and written as two
// uppercase hex digits, so "1" (0x31) becomes "38".
package legacyhash

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Offset is added to every code point by the encoder.
const Offset = 7

// ErrDecode is returned for any malformed code.
var ErrDecode = errors.New("legacyhash: invalid code")

// Decode reverses Encode. It fails on empty input, odd length, non-hex
// characters or a pair that decodes below zero.
func Decode(code string) (string, error) {
	if code == "" {
		return "", fmt.Errorf("%w: empty", ErrDecode)
	}
	if len(code)%2 != 0 {
		return "", fmt.Errorf("%w: odd length %d", ErrDecode, len(code))
	}

	var b strings.Builder
	b.Grow(len(code) / 2)
	for i := 0; i < len(code); i += 2 {
		v, err := strconv.ParseUint(code[i:i+2], 16, 8)
		if err != nil {
			return "", fmt.Errorf("%w: bad pair at %d", ErrDecode, i)
		}
		r := int(v) - Offset
		if r < 0 {
			return "", fmt.Errorf("%w: negative code point at %d", ErrDecode, i)
		}
		b.WriteRune(rune(r))
	}
	return b.String(), nil
}

// Encode produces the legacy code for value. Characters whose shifted code
// point does not fit a single byte cannot be represented and are rejected.
func Encode(value string) (string, error) {
	var b strings.Builder
	b.Grow(len(value) * 2)
	for _, r := range value {
		shifted := r + Offset
		if shifted > 0xFF {
			return "", fmt.Errorf("legacyhash: character %q cannot be encoded", r)
		}
		fmt.Fprintf(&b, "%02X", shifted)
	}
	return b.String(), nil
}
