package ipfsverify

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark/std/math/uints"

	"zkl-file-verify/pkg/fieldcodec"
	"zkl-file-verify/pkg/relation"
)

// MaxInputLen bounds each private input. Every extra SHA-256 block costs
// tens of thousands of constraints.
const MaxInputLen = 4096

var ErrInvalidShape = errors.New("invalid circuit shape")

// Shape fixes the byte lengths of the private inputs. Each distinct shape is
// a distinct circuit with its own keys, and the shape itself is public.
type Shape struct {
	IPFSHashLen int `json:"ipfs_hash_len" cbor:"1,keyasint"`
	SecretLen   int `json:"secret_len" cbor:"2,keyasint"`
}

// ShapeOf returns the shape of w.
func ShapeOf(w relation.Witness) Shape {
	return Shape{IPFSHashLen: len(w.IPFSHash), SecretLen: len(w.Secret)}
}

func (s Shape) String() string {
	return fmt.Sprintf("ipfs%d-secret%d", s.IPFSHashLen, s.SecretLen)
}

func (s Shape) Validate() error {
	if s.IPFSHashLen < 0 || s.SecretLen < 0 {
		return fmt.Errorf("%w: negative length in %s", ErrInvalidShape, s)
	}
	if s.IPFSHashLen > MaxInputLen || s.SecretLen > MaxInputLen {
		return fmt.Errorf("%w: %s exceeds %d bytes", ErrInvalidShape, s, MaxInputLen)
	}
	return nil
}

// NewCircuit returns the compile-time circuit definition for s.
func NewCircuit(s Shape) *Circuit {
	return &Circuit{
		IPFSHash: make([]uints.U8, s.IPFSHashLen),
		Secret:   make([]uints.U8, s.SecretLen),
	}
}

// NewAssignment builds the full witness assignment. The public inputs come
// from the parsed hash_value and the computed commitment; when the relation
// does not hold the assignment does not satisfy the circuit.
func NewAssignment(w relation.Witness, out relation.PublicOutputs) *Circuit {
	return &Circuit{
		HashValue:  fieldcodec.ParseDecimalU128(w.HashValue).Big(),
		Commitment: out.Commitment.Big(),
		IPFSHash:   uints.NewU8Array([]byte(w.IPFSHash)),
		Secret:     uints.NewU8Array([]byte(w.Secret)),
	}
}

// NewPublicAssignment builds the public part of the witness. The private
// slices are zero-filled to the shape's lengths.
func NewPublicAssignment(s Shape, out relation.PublicOutputs) *Circuit {
	return &Circuit{
		HashValue:  out.DerivedHash.Big(),
		Commitment: out.Commitment.Big(),
		IPFSHash:   uints.NewU8Array(make([]byte, s.IPFSHashLen)),
		Secret:     uints.NewU8Array(make([]byte, s.SecretLen)),
	}
}
