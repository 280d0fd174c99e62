// Package store persists proof documents and proving keys.
//
// File access only exists in the full build profile. Restricted builds
// (-tags restricted, or js/wasm) keep the same API and return
// ErrFileIOUnavailable.
package store

import (
	"errors"
	"fmt"
	"path/filepath"

	"zkl-file-verify/circuits/ipfsverify"
	"zkl-file-verify/pkg/engine"
)

// DefaultProofPath is where the harness writes proofs unless told otherwise.
const DefaultProofPath = "ipfs_verification_proof.json"

var (
	// ErrSerializationFailure covers encoding and writing a proof. The
	// in-memory proof is unaffected.
	ErrSerializationFailure = errors.New("proof serialization failed")
	// ErrFileIOUnavailable is returned by every file operation in restricted builds.
	ErrFileIOUnavailable = errors.New("file I/O unavailable in restricted profile")
)

// EncodeProof renders p in format f, wrapping failures in
// ErrSerializationFailure.
func EncodeProof(p *engine.Proof, f engine.Format) ([]byte, error) {
	data, err := engine.Marshal(p, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailure, err)
	}
	return data, nil
}

// KeyStore keeps proving and verifying keys as
// <dir>/<scheme>_<shape>_{pk,vk}.bin.
type KeyStore struct {
	dir string
}

var _ engine.KeyStore = (*KeyStore)(nil)

func (s *KeyStore) Dir() string { return s.dir }

// ProvingKeyPath returns the proving key file for scheme and shape.
func (s *KeyStore) ProvingKeyPath(scheme string, shape ipfsverify.Shape) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s_pk.bin", scheme, shape))
}

// VerifyingKeyPath returns the verifying key file for scheme and shape.
func (s *KeyStore) VerifyingKeyPath(scheme string, shape ipfsverify.Shape) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s_vk.bin", scheme, shape))
}
