package relation

import (
	"fmt"

	"github.com/rs/zerolog"

	"zkl-file-verify/pkg/fieldcodec"
)

// Witness is the full input to the relation. Secret is private; IPFSHash is
// private to the proof but not sensitive, and HashValue is public.
type Witness struct {
	IPFSHash  string
	HashValue string
	Secret    string
}

// String renders w without the secret.
func (w Witness) String() string {
	return fmt.Sprintf("Witness{IPFSHash:%q HashValue:%q Secret:<%d bytes redacted>}", w.IPFSHash, w.HashValue, len(w.Secret))
}

// GoString keeps %#v from printing the secret.
func (w Witness) GoString() string {
	return w.String()
}

// MarshalZerologObject logs w without the secret.
func (w Witness) MarshalZerologObject(e *zerolog.Event) {
	e.Str("ipfs_hash", w.IPFSHash).
		Str("hash_value", w.HashValue).
		Int("secret_len", len(w.Secret))
}

// PublicOutputs is the ordered pair of public signals (derived_hash,
// commitment).
type PublicOutputs struct {
	DerivedHash fieldcodec.U128 `json:"derived_hash" cbor:"1,keyasint"`
	Commitment  fieldcodec.U128 `json:"commitment" cbor:"2,keyasint"`
}

// Signals returns the outputs in public-signal order.
func (p PublicOutputs) Signals() []fieldcodec.U128 {
	return []fieldcodec.U128{p.DerivedHash, p.Commitment}
}

// Equal reports whether both signals match.
func (p PublicOutputs) Equal(o PublicOutputs) bool {
	return p.DerivedHash.Equal(o.DerivedHash) && p.Commitment.Equal(o.Commitment)
}
