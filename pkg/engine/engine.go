// Package engine adapts proving backends to the two-operation contract used
// by the harness: Generate a proof for a witness, Verify a proof document.
package engine

import (
	"context"
	"errors"
	"fmt"

	"zkl-file-verify/pkg/relation"
)

var (
	// ErrEngineFailure covers compile, setup, prove and key-store faults.
	ErrEngineFailure = errors.New("proof engine failure")
	// ErrKeysNotFound means no keys exist for a scheme and shape.
	ErrKeysNotFound = errors.New("proving keys not found")
	// ErrUnknownStrategy is returned by New for an unrecognised strategy.
	ErrUnknownStrategy = errors.New("unknown proof strategy")
	// ErrInvalidProof is returned by Check for a proof that does not verify.
	ErrInvalidProof = errors.New("invalid proof")
)

// Engine generates and verifies proofs of the IPFS verification relation.
//
// Generate fails with relation.ErrRelationUnsatisfied when hash_value does not
// match, and with ErrEngineFailure on backend faults. Verify is a pure
// function of the proof and never panics.
type Engine interface {
	Generate(ctx context.Context, w relation.Witness) (*Proof, error)
	Verify(p *Proof) bool
}

// Strategy selects a backend.
type Strategy string

const (
	StrategyGroth16 Strategy = "groth16" // gnark Groth16 over BN254
	StrategyPlonk   Strategy = "plonk"   // gnark PlonK over BN254 with a KZG SRS
	StrategyStub    Strategy = "stub"    // relation only, MAC-bound outputs
)

// ParseStrategy validates s.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(s); st {
	case StrategyGroth16, StrategyPlonk, StrategyStub:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// New builds the engine for strategy.
func New(strategy Strategy, opts ...Option) (Engine, error) {
	switch strategy {
	case StrategyGroth16, StrategyPlonk:
		return NewGnarkEngine(string(strategy), opts...)
	case StrategyStub:
		return NewStubEngine(opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}
