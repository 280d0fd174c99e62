// Package digest wraps the fixed 256-bit hash used by the IPFS verification relation.
package digest

import (
	"encoding/hex"

	sha256 "github.com/minio/sha256-simd"
)

// Size is the byte length of a Digest256.
const Size = sha256.Size

// Digest256 is a SHA-256 output.
type Digest256 [Size]byte

// Sum returns SHA-256(b). Any input, including an empty one, is valid.
func Sum(b []byte) Digest256 {
	return sha256.Sum256(b)
}

// SumConcat returns SHA-256(parts[0] || parts[1] || ...) without building
// the concatenation in memory. No separator is inserted between parts.
func SumConcat(parts ...[]byte) Digest256 {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}

	var d Digest256
	copy(d[:], h.Sum(nil))
	return d
}

// Hex returns the lowercase hex encoding of the digest.
func (d Digest256) Hex() string {
	return hex.EncodeToString(d[:])
}
