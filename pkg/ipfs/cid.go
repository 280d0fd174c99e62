// Package ipfs describes IPFS content identifiers for display. Nothing here
// gates the verification relation: any string is an acceptable ipfs_hash.
package ipfs

import (
	"encoding/hex"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multicodec"
	"github.com/multiformats/go-multihash"
)

// Info is what a CID says about the content it names.
type Info struct {
	Version    uint64 `json:"version"`
	Codec      string `json:"codec"`
	HashFunc   string `json:"hash_func"`
	DigestLen  int    `json:"digest_len"`
	DigestHex  string `json:"digest_hex"`
	Normalized string `json:"normalized"`
}

func (i Info) String() string {
	return fmt.Sprintf("CIDv%d %s %s/%d", i.Version, i.Codec, i.HashFunc, i.DigestLen*8)
}

// Inspect decodes s as a CID.
func Inspect(s string) (Info, error) {
	c, err := cid.Decode(s)
	if err != nil {
		return Info{}, fmt.Errorf("not a CID: %w", err)
	}
	dm, err := multihash.Decode(c.Hash())
	if err != nil {
		return Info{}, fmt.Errorf("CID %s has a malformed multihash: %w", s, err)
	}
	return Info{
		Version:    c.Version(),
		Codec:      multicodec.Code(c.Type()).String(),
		HashFunc:   dm.Name,
		DigestLen:  dm.Length,
		DigestHex:  hex.EncodeToString(dm.Digest),
		Normalized: c.String(),
	}, nil
}

// IsCID reports whether s decodes as a CID.
func IsCID(s string) bool {
	_, err := cid.Decode(s)
	return err == nil
}
