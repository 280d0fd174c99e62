// Package ipfsverify is the arithmetic-circuit form of the IPFS verification
// relation.
package ipfsverify

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/sha2"
	"github.com/consensys/gnark/std/math/uints"

	"zkl-file-verify/pkg/fieldcodec"
)

// Circuit proves knowledge of (ipfs_hash, secret) such that:
//
//	HashValue  = trunc128(SHA256(ipfs_hash))
//	Commitment = trunc128(SHA256(ipfs_hash || secret))
//
// where trunc128 packs the first 16 digest bytes big-endian. The slice
// lengths are fixed at compile time; see Shape.
type Circuit struct {
	// Public inputs
	HashValue  frontend.Variable `gnark:",public"`
	Commitment frontend.Variable `gnark:",public"`

	// Secret witness
	IPFSHash []uints.U8
	Secret   []uints.U8
}

func (c *Circuit) Define(api frontend.API) error {
	uapi, err := uints.NewBytes(api)
	if err != nil {
		return err
	}

	// 1. HashValue = trunc128(SHA256(ipfs_hash))
	h, err := sha2.New(api)
	if err != nil {
		return err
	}
	h.Write(c.IPFSHash)
	derived, err := packTruncated(api, uapi, h.Sum())
	if err != nil {
		return err
	}
	api.AssertIsEqual(derived, c.HashValue)

	// 2. Commitment = trunc128(SHA256(ipfs_hash || secret))
	hc, err := sha2.New(api)
	if err != nil {
		return err
	}
	hc.Write(c.IPFSHash)
	hc.Write(c.Secret)
	commitment, err := packTruncated(api, uapi, hc.Sum())
	if err != nil {
		return err
	}
	api.AssertIsEqual(commitment, c.Commitment)

	return nil
}

// packTruncated folds the first 16 digest bytes into one field element,
// most significant byte first. 2^128 is far below the BN254 scalar modulus,
// so the sum never wraps.
func packTruncated(api frontend.API, uapi *uints.Bytes, sum []uints.U8) (frontend.Variable, error) {
	if len(sum) < fieldcodec.Width {
		return nil, fmt.Errorf("digest too short: %d bytes", len(sum))
	}
	var acc frontend.Variable = 0
	for i := 0; i < fieldcodec.Width; i++ {
		acc = api.Add(api.Mul(acc, 256), uapi.Value(sum[i]))
	}
	return acc, nil
}
