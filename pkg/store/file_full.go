//go:build !restricted && !(js && wasm)

package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"zkl-file-verify/circuits/ipfsverify"
	"zkl-file-verify/pkg/engine"
)

// Profile names the build profile.
const Profile = "full"

// SaveProof writes p to path in format f.
func SaveProof(path string, p *engine.Proof, f engine.Format) error {
	data, err := EncodeProof(p, f)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrSerializationFailure, err)
	}
	return nil
}

// LoadProof reads a proof document written by SaveProof in either format.
func LoadProof(path string) (*engine.Proof, engine.Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return engine.Unmarshal(data)
}

// ReadFile reads a key or signature file.
func ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to path through a temporary file.
func WriteFile(path string, data []byte) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// NewKeyStore opens dir, creating it when missing.
func NewKeyStore(dir string) (*KeyStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create key store %s: %w", dir, err)
	}
	return &KeyStore{dir: dir}, nil
}

func (s *KeyStore) LoadKeys(scheme ipfsverify.Scheme, shape ipfsverify.Shape) (*ipfsverify.ProvingKeys, error) {
	pkPath := s.ProvingKeyPath(scheme.Name(), shape)
	vkPath := s.VerifyingKeyPath(scheme.Name(), shape)

	pkFile, err := os.Open(pkPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", engine.ErrKeysNotFound, pkPath)
	}
	if err != nil {
		return nil, err
	}
	defer pkFile.Close()

	vkFile, err := os.Open(vkPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", engine.ErrKeysNotFound, vkPath)
	}
	if err != nil {
		return nil, err
	}
	defer vkFile.Close()

	return ipfsverify.LoadKeys(scheme, shape, pkFile, vkFile)
}

func (s *KeyStore) SaveKeys(keys *ipfsverify.ProvingKeys) error {
	name := keys.Scheme.Name()
	if err := writeFileAtomic(s.ProvingKeyPath(name, keys.Shape), func(w io.Writer) error {
		_, err := keys.PK.WriteTo(w)
		return err
	}); err != nil {
		return fmt.Errorf("write proving key: %w", err)
	}
	if err := writeFileAtomic(s.VerifyingKeyPath(name, keys.Shape), func(w io.Writer) error {
		_, err := keys.VK.WriteTo(w)
		return err
	}); err != nil {
		return fmt.Errorf("write verifying key: %w", err)
	}
	return nil
}

// ReadVerifyingKey returns the raw verifying key bytes for scheme and shape.
func (s *KeyStore) ReadVerifyingKey(scheme string, shape ipfsverify.Shape) ([]byte, error) {
	data, err := os.ReadFile(s.VerifyingKeyPath(scheme, shape))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", engine.ErrKeysNotFound, s.VerifyingKeyPath(scheme, shape))
	}
	return data, err
}

func writeFileAtomic(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
