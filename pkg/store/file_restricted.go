//go:build restricted || (js && wasm)

package store

import (
	"zkl-file-verify/circuits/ipfsverify"
	"zkl-file-verify/pkg/engine"
)

// Profile names the build profile.
const Profile = "restricted"

func SaveProof(string, *engine.Proof, engine.Format) error {
	return ErrFileIOUnavailable
}

func LoadProof(string) (*engine.Proof, engine.Format, error) {
	return nil, "", ErrFileIOUnavailable
}

func ReadFile(string) ([]byte, error) {
	return nil, ErrFileIOUnavailable
}

func WriteFile(string, []byte) error {
	return ErrFileIOUnavailable
}

func NewKeyStore(string) (*KeyStore, error) {
	return nil, ErrFileIOUnavailable
}

func (s *KeyStore) LoadKeys(ipfsverify.Scheme, ipfsverify.Shape) (*ipfsverify.ProvingKeys, error) {
	return nil, ErrFileIOUnavailable
}

func (s *KeyStore) SaveKeys(*ipfsverify.ProvingKeys) error {
	return ErrFileIOUnavailable
}

func (s *KeyStore) ReadVerifyingKey(string, ipfsverify.Shape) ([]byte, error) {
	return nil, ErrFileIOUnavailable
}
