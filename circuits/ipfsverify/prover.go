package ipfsverify

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"

	"zkl-file-verify/pkg/relation"
)

// ProverResult contains proving metrics and the proof artifact
type ProverResult struct {
	Proof       []byte
	ProvingTime time.Duration
	Constraints int
	Success     bool
	ErrorMsg    string
}

// ProvingKeys holds the compiled circuit and keys for one scheme and shape.
type ProvingKeys struct {
	Scheme    Scheme
	Shape     Shape
	PK        Key
	VK        Key
	CCS       constraint.ConstraintSystem
	CircuitID string
}

// Compile compiles the circuit for shape s under scheme.
func Compile(scheme Scheme, s Shape) (constraint.ConstraintSystem, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	ccs, err := frontend.Compile(Curve.ScalarField(), scheme.Builder(), NewCircuit(s))
	if err != nil {
		return nil, fmt.Errorf("ipfsverify circuit compilation failed: %w", err)
	}
	return ccs, nil
}

// Setup compiles the circuit for s and runs the scheme's key generation.
// Callers cache the result; every call produces fresh keys.
func Setup(scheme Scheme, s Shape) (*ProvingKeys, error) {
	ccs, err := Compile(scheme, s)
	if err != nil {
		return nil, err
	}
	pk, vk, err := scheme.Setup(ccs)
	if err != nil {
		return nil, err
	}
	return newProvingKeys(scheme, s, ccs, pk, vk)
}

// LoadKeys recompiles the circuit for s and reads previously generated keys.
func LoadKeys(scheme Scheme, s Shape, pkR, vkR io.Reader) (*ProvingKeys, error) {
	ccs, err := Compile(scheme, s)
	if err != nil {
		return nil, err
	}
	pk := scheme.NewProvingKey()
	if _, err := pk.ReadFrom(pkR); err != nil {
		return nil, fmt.Errorf("failed to read proving key: %w", err)
	}
	vk := scheme.NewVerifyingKey()
	if _, err := vk.ReadFrom(vkR); err != nil {
		return nil, fmt.Errorf("failed to read verifying key: %w", err)
	}
	return newProvingKeys(scheme, s, ccs, pk, vk)
}

func newProvingKeys(scheme Scheme, s Shape, ccs constraint.ConstraintSystem, pk, vk Key) (*ProvingKeys, error) {
	vkBytes, err := KeyBytes(vk)
	if err != nil {
		return nil, err
	}
	return &ProvingKeys{
		Scheme:    scheme,
		Shape:     s,
		PK:        pk,
		VK:        vk,
		CCS:       ccs,
		CircuitID: ComputeVKHash(vkBytes),
	}, nil
}

// Prove generates a proof for w. out must be the relation's outputs for w.
func Prove(keys *ProvingKeys, w relation.Witness, out relation.PublicOutputs) (*ProverResult, error) {
	startTime := time.Now()
	result := &ProverResult{Constraints: keys.CCS.GetNbConstraints()}

	if got := ShapeOf(w); got != keys.Shape {
		err := fmt.Errorf("witness shape %s does not match keys for %s", got, keys.Shape)
		result.ErrorMsg = err.Error()
		return result, err
	}

	fullWitness, err := frontend.NewWitness(NewAssignment(w, out), Curve.ScalarField())
	if err != nil {
		result.ErrorMsg = fmt.Sprintf("witness creation failed: %v", err)
		return result, err
	}

	proof, err := keys.Scheme.Prove(keys.CCS, keys.PK, fullWitness)
	if err != nil {
		result.ErrorMsg = fmt.Sprintf("proof generation failed: %v", err)
		return result, err
	}

	result.Proof = proof
	result.ProvingTime = time.Since(startTime)
	result.Success = true

	return result, nil
}

// Verify checks proofBytes against the public outputs with vk only.
func Verify(scheme Scheme, vk Key, s Shape, proofBytes []byte, out relation.PublicOutputs) error {
	pubWitness, err := frontend.NewWitness(NewPublicAssignment(s, out), Curve.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("public witness creation failed: %w", err)
	}
	if err := scheme.Verify(proofBytes, vk, pubWitness); err != nil {
		return fmt.Errorf("proof verification failed: %w", err)
	}
	return nil
}

// KeyBytes serializes a proving or verifying key.
func KeyBytes(k Key) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := k.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("key serialization failed: %w", err)
	}
	return buf.Bytes(), nil
}
