//go:build !restricted && !(js && wasm)

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"zkl-file-verify/circuits/ipfsverify"
	"zkl-file-verify/pkg/engine"
	"zkl-file-verify/pkg/relation"
)

const sampleIPFSHash = "QmTPmBiqnUnL1k3W9GxmZTTtMSEX8rgpwqeCfYsJvodS2d"

func stubProof(t *testing.T) (*engine.StubEngine, *engine.Proof) {
	t.Helper()
	e, err := engine.NewStubEngine()
	require.NoError(t, err)
	p, err := e.Generate(context.Background(), relation.Witness{
		IPFSHash:  sampleIPFSHash,
		HashValue: relation.HashValueFor(sampleIPFSHash),
		Secret:    "test-secret",
	})
	require.NoError(t, err)
	return e, p
}

func TestSaveLoadProof(t *testing.T) {
	e, p := stubProof(t)
	dir := t.TempDir()

	for _, f := range []engine.Format{engine.FormatJSON, engine.FormatCBOR} {
		path := filepath.Join(dir, "proof."+string(f))
		require.NoError(t, SaveProof(path, p, f))

		back, got, err := LoadProof(path)
		require.NoError(t, err)
		require.Equal(t, f, got)
		require.True(t, e.Verify(back))

		_, err = os.Stat(path + ".tmp")
		require.True(t, errors.Is(err, os.ErrNotExist))
	}
}

func TestSaveProofFailureKeepsProof(t *testing.T) {
	e, p := stubProof(t)
	dir := t.TempDir()
	// A directory in the way of the temporary file.
	blocked := filepath.Join(dir, "proof.json")
	require.NoError(t, os.Mkdir(blocked+".tmp", 0o755))

	err := SaveProof(blocked, p, engine.FormatJSON)
	require.True(t, errors.Is(err, ErrSerializationFailure))
	require.True(t, e.Verify(p))

	err = SaveProof(filepath.Join(dir, "x"), p, engine.Format("yaml"))
	require.True(t, errors.Is(err, ErrSerializationFailure))
}

func TestKeyStoreMissingKeys(t *testing.T) {
	ks, err := NewKeyStore(filepath.Join(t.TempDir(), "keys"))
	require.NoError(t, err)

	_, err = ks.LoadKeys(ipfsverify.Groth16{}, ipfsverify.Shape{IPFSHashLen: 46, SecretLen: 11})
	require.True(t, errors.Is(err, engine.ErrKeysNotFound))
	require.Equal(t,
		filepath.Join(ks.Dir(), "groth16_ipfs46-secret11_vk.bin"),
		ks.VerifyingKeyPath("groth16", ipfsverify.Shape{IPFSHashLen: 46, SecretLen: 11}))
}

func TestKeyStoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping groth16 setup in short mode")
	}

	shape := ipfsverify.Shape{IPFSHashLen: 3, SecretLen: 1}
	keys, err := ipfsverify.Setup(ipfsverify.Groth16{}, shape)
	require.NoError(t, err)

	ks, err := NewKeyStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, ks.SaveKeys(keys))

	loaded, err := ks.LoadKeys(ipfsverify.Groth16{}, shape)
	require.NoError(t, err)
	require.Equal(t, keys.CircuitID, loaded.CircuitID)

	vk, err := ks.ReadVerifyingKey("groth16", shape)
	require.NoError(t, err)
	require.NoError(t, ipfsverify.ValidateCircuitID(keys.CircuitID, vk))
}
