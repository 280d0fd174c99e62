package engine

import (
	"zkl-file-verify/circuits/ipfsverify"
	"zkl-file-verify/pkg/fieldcodec"
	"zkl-file-verify/pkg/relation"
)

// ProofVersion tags every proof document.
const ProofVersion = "zkl-file-verify/1"

// CurveBN254 is the curve name recorded in proof documents.
const CurveBN254 = "bn254"

// Proof is a self-describing proof document. Material is opaque to everything
// but the engine that produced it.
type Proof struct {
	Version   string                 `json:"version" cbor:"1,keyasint"`
	Scheme    string                 `json:"scheme" cbor:"2,keyasint"`
	Curve     string                 `json:"curve" cbor:"3,keyasint"`
	CircuitID string                 `json:"circuit_id" cbor:"4,keyasint"`
	Shape     ipfsverify.Shape       `json:"shape" cbor:"5,keyasint"`
	Public    relation.PublicOutputs `json:"public" cbor:"6,keyasint"`
	Material  []byte                 `json:"material" cbor:"7,keyasint"`
}

// PublicSignals returns the public outputs in signal order.
func (p *Proof) PublicSignals() []fieldcodec.U128 {
	return p.Public.Signals()
}
