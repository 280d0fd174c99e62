// Package relation evaluates the IPFS verification relation outside a
// circuit.
//
// Given a witness (ipfs_hash, hash_value, secret) it derives
//
//	derived_hash = trunc128(sha256(ipfs_hash))
//	commitment   = trunc128(sha256(ipfs_hash || secret))
//
// and holds when hash_value parses to derived_hash. The secret only shapes
// the commitment; no expected secret is checked.
package relation

import (
	"errors"
	"fmt"

	"zkl-file-verify/pkg/digest"
	"zkl-file-verify/pkg/fieldcodec"
)

var (
	// ErrRelationUnsatisfied means hash_value does not match the derived hash.
	ErrRelationUnsatisfied = errors.New("relation unsatisfied: hash value does not match derived hash")
	// ErrMalformedHashValue is only produced by strict numeral parsing.
	ErrMalformedHashValue = fieldcodec.ErrMalformedHashValue
)

// DerivedHash returns trunc128(sha256(ipfsHash)).
func DerivedHash(ipfsHash string) fieldcodec.U128 {
	return fieldcodec.TruncateToU128(digest.Sum([]byte(ipfsHash)))
}

// Commitment returns trunc128(sha256(ipfsHash || secret)). The two strings
// are concatenated without a separator.
func Commitment(ipfsHash, secret string) fieldcodec.U128 {
	return fieldcodec.TruncateToU128(digest.SumConcat([]byte(ipfsHash), []byte(secret)))
}

// HashValueFor returns the hash_value that satisfies the relation for
// ipfsHash, rendered in decimal.
func HashValueFor(ipfsHash string) string {
	return DerivedHash(ipfsHash).String()
}

// ValidateHashValue reports whether s is a plain decimal numeral below 2^128.
// Evaluate accepts any string; this is for callers that want to warn about
// input the scanning parser would silently reinterpret.
func ValidateHashValue(s string) error {
	_, err := fieldcodec.ParseDecimalStrict(s)
	return err
}

// Evaluate computes the public outputs for w and reports whether the
// relation holds. The outputs are returned either way.
func Evaluate(w Witness) (PublicOutputs, bool) {
	out := PublicOutputs{
		DerivedHash: DerivedHash(w.IPFSHash),
		Commitment:  Commitment(w.IPFSHash, w.Secret),
	}
	expected := fieldcodec.ParseDecimalU128(w.HashValue)
	return out, out.DerivedHash.Equal(expected)
}

// Check is Evaluate with the failure expressed as ErrRelationUnsatisfied.
func Check(w Witness) (PublicOutputs, error) {
	out, ok := Evaluate(w)
	if !ok {
		return out, fmt.Errorf("%w: derived %s", ErrRelationUnsatisfied, out.DerivedHash)
	}
	return out, nil
}
