package ipfsverify

import (
	"bytes"
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/test/unsafekzg"
)

// Curve is the only curve the circuit is compiled for.
const Curve = ecc.BN254

// Key is a serializable proving or verifying key.
type Key interface {
	io.WriterTo
	io.ReaderFrom
}

// Scheme is a proving system the circuit can be compiled for.
type Scheme interface {
	Name() string
	Builder() frontend.NewBuilder
	Setup(ccs constraint.ConstraintSystem) (pk, vk Key, err error)
	Prove(ccs constraint.ConstraintSystem, pk Key, full witness.Witness) ([]byte, error)
	Verify(proof []byte, vk Key, public witness.Witness) error
	NewProvingKey() Key
	NewVerifyingKey() Key
}

const (
	SchemeGroth16 = "groth16"
	SchemePlonk   = "plonk"
)

// SchemeByName returns the scheme registered under name.
func SchemeByName(name string) (Scheme, error) {
	switch name {
	case SchemeGroth16:
		return Groth16{}, nil
	case SchemePlonk:
		return Plonk{}, nil
	default:
		return nil, fmt.Errorf("unknown proving scheme %q", name)
	}
}

// Groth16 uses an R1CS with a circuit-specific setup.
type Groth16 struct{}

func (Groth16) Name() string                 { return SchemeGroth16 }
func (Groth16) Builder() frontend.NewBuilder { return r1cs.NewBuilder }
func (Groth16) NewProvingKey() Key           { return groth16.NewProvingKey(Curve) }
func (Groth16) NewVerifyingKey() Key         { return groth16.NewVerifyingKey(Curve) }

func (Groth16) Setup(ccs constraint.ConstraintSystem) (Key, Key, error) {
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16 setup failed: %w", err)
	}
	return pk, vk, nil
}

func (Groth16) Prove(ccs constraint.ConstraintSystem, pk Key, full witness.Witness) ([]byte, error) {
	gpk, ok := pk.(groth16.ProvingKey)
	if !ok {
		return nil, fmt.Errorf("groth16: unexpected proving key type %T", pk)
	}
	proof, err := groth16.Prove(ccs, gpk, full)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("proof serialization failed: %w", err)
	}
	return buf.Bytes(), nil
}

func (Groth16) Verify(proofBytes []byte, vk Key, public witness.Witness) error {
	gvk, ok := vk.(groth16.VerifyingKey)
	if !ok {
		return fmt.Errorf("groth16: unexpected verifying key type %T", vk)
	}
	proof := groth16.NewProof(Curve)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return fmt.Errorf("proof deserialization failed: %w", err)
	}
	return groth16.Verify(proof, gvk, public)
}

// Plonk uses a sparse constraint system over a KZG SRS. The SRS comes from
// unsafekzg, whose toxic waste is known; keys are only as trustworthy as the
// machine that generated them.
type Plonk struct{}

func (Plonk) Name() string                 { return SchemePlonk }
func (Plonk) Builder() frontend.NewBuilder { return scs.NewBuilder }
func (Plonk) NewProvingKey() Key           { return plonk.NewProvingKey(Curve) }
func (Plonk) NewVerifyingKey() Key         { return plonk.NewVerifyingKey(Curve) }

func (Plonk) Setup(ccs constraint.ConstraintSystem) (Key, Key, error) {
	srs, srsLagrange, err := unsafekzg.NewSRS(ccs)
	if err != nil {
		return nil, nil, fmt.Errorf("kzg srs generation failed: %w", err)
	}
	pk, vk, err := plonk.Setup(ccs, srs, srsLagrange)
	if err != nil {
		return nil, nil, fmt.Errorf("plonk setup failed: %w", err)
	}
	return pk, vk, nil
}

func (Plonk) Prove(ccs constraint.ConstraintSystem, pk Key, full witness.Witness) ([]byte, error) {
	ppk, ok := pk.(plonk.ProvingKey)
	if !ok {
		return nil, fmt.Errorf("plonk: unexpected proving key type %T", pk)
	}
	proof, err := plonk.Prove(ccs, ppk, full)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("proof serialization failed: %w", err)
	}
	return buf.Bytes(), nil
}

func (Plonk) Verify(proofBytes []byte, vk Key, public witness.Witness) error {
	pvk, ok := vk.(plonk.VerifyingKey)
	if !ok {
		return fmt.Errorf("plonk: unexpected verifying key type %T", vk)
	}
	proof := plonk.NewProof(Curve)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return fmt.Errorf("proof deserialization failed: %w", err)
	}
	return plonk.Verify(proof, pvk, public)
}
