// Package fieldcodec projects 256-bit digests and decimal numerals onto the
// 128-bit integers compared by the IPFS verification relation.
//
// The projection is lossy on purpose: the upper 128 bits of a digest are
// dropped and contribute nothing to collision resistance. Changing that
// breaks compatibility with every proof already issued.
package fieldcodec

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"zkl-file-verify/pkg/digest"
)

// ErrMalformedHashValue is returned by the strict parser when a hash value is
// not a canonical decimal numeral in u128 range. The scanning parser never
// returns it.
var ErrMalformedHashValue = errors.New("malformed hash value")

// TruncateToU128 interprets bytes [0, 16) of d as a big-endian integer.
func TruncateToU128(d digest.Digest256) U128 {
	return TruncateBytes(d[:])
}

// TruncateBytes packs the first 16 bytes of b big-endian. Shorter inputs are
// packed as-is, so TruncateBytes([]byte{1, 2}) == 258.
func TruncateBytes(b []byte) U128 {
	var acc U128
	for i := 0; i < Width && i < len(b); i++ {
		acc = acc.mulAdd(256, uint64(b[i]))
	}
	return acc
}

// ParseDecimalU128 folds every ASCII digit of s into acc = acc*10 + digit,
// left to right. Other characters are skipped without error, and overflow
// wraps modulo 2^128. Empty or digit-free input yields 0.
func ParseDecimalU128(s string) U128 {
	var acc U128
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			continue
		}
		acc = acc.mulAdd(10, uint64(c-'0'))
	}
	return acc
}

// ParseDecimalStrict is the standard numeral conversion: an optional leading
// '+' followed by at least one ASCII digit and nothing else, with a value
// below 2^128.
func ParseDecimalStrict(s string) (U128, error) {
	digits := s
	if len(digits) > 0 && digits[0] == '+' {
		digits = digits[1:]
	}
	if len(digits) == 0 {
		return U128{}, fmt.Errorf("%w: %q has no digits", ErrMalformedHashValue, s)
	}

	var acc U128
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return U128{}, fmt.Errorf("%w: %q contains non-digit %q", ErrMalformedHashValue, s, c)
		}
		var wide uint256.Int
		wide.Mul(&acc.v, uint256.NewInt(10))
		wide.AddUint64(&wide, uint64(c-'0'))
		if wide[2] != 0 || wide[3] != 0 {
			return U128{}, fmt.Errorf("%w: %q overflows u128", ErrMalformedHashValue, s)
		}
		acc.v = wide
	}
	return acc, nil
}
