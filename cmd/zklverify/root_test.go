package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/require"

	"zkl-file-verify/pkg/config"
	"zkl-file-verify/pkg/engine"
	"zkl-file-verify/pkg/relation"
	"zkl-file-verify/pkg/store"
)

const sampleIPFSHash = "QmTPmBiqnUnL1k3W9GxmZTTtMSEX8rgpwqeCfYsJvodS2d"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestUsageWithTooFewArguments(t *testing.T) {
	for _, args := range [][]string{nil, {sampleIPFSHash}, {sampleIPFSHash, "1"}} {
		out, err := run(t, args...)
		require.NoError(t, err)
		require.Contains(t, out, "Usage: zklverify <ipfs_hash> <hash_value> <secret>")
	}
}

func TestProveWithStubEngine(t *testing.T) {
	dir := t.TempDir()
	proofPath := filepath.Join(dir, "proof.json")

	keyPath := filepath.Join(dir, "signer.hex")
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(keyPath, []byte(hex.EncodeToString(priv.Serialize())), 0o600))

	_, err = run(t,
		"--scheme", "stub",
		"--log-level", "error",
		"--out", proofPath,
		"--sign-key-file", keyPath,
		sampleIPFSHash, relation.HashValueFor(sampleIPFSHash), "test-secret",
	)
	require.NoError(t, err)

	p, format, err := store.LoadProof(proofPath)
	require.NoError(t, err)
	require.Equal(t, engine.FormatJSON, format)
	require.Equal(t, "stub", p.Scheme)
	require.Equal(t, relation.HashValueFor(sampleIPFSHash), p.Public.DerivedHash.String())

	_, err = run(t, "verify", "--log-level", "error", "--signature", signaturePath(proofPath), proofPath)
	require.NoError(t, err)
}

func TestProveRejectsWrongHashValue(t *testing.T) {
	proofPath := filepath.Join(t.TempDir(), "proof.json")
	_, err := run(t, "--scheme", "stub", "--log-level", "error", "--out", proofPath,
		sampleIPFSHash, "123456789", "test-secret")
	require.True(t, errors.Is(err, relation.ErrRelationUnsatisfied))

	_, err = os.Stat(proofPath)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestVerifyRejectsTamperedProof(t *testing.T) {
	dir := t.TempDir()
	proofPath := filepath.Join(dir, "proof.cbor")
	_, err := run(t, "--scheme", "stub", "--log-level", "error", "--format", "cbor", "--out", proofPath,
		sampleIPFSHash, relation.HashValueFor(sampleIPFSHash), "test-secret")
	require.NoError(t, err)

	p, _, err := store.LoadProof(proofPath)
	require.NoError(t, err)
	p.Public.Commitment = relation.Commitment(sampleIPFSHash, "other-secret")
	tampered := filepath.Join(dir, "tampered.json")
	require.NoError(t, store.SaveProof(tampered, p, engine.FormatJSON))

	_, err = run(t, "verify", "--log-level", "error", tampered)
	require.True(t, errors.Is(err, engine.ErrInvalidProof))
}

func TestProveDefaultSchemeThenVerify(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping groth16 setup in short mode")
	}
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := run(t, "--log-level", "error", sampleIPFSHash, relation.HashValueFor(sampleIPFSHash), "test-secret")
	require.NoError(t, err)

	p, _, err := store.LoadProof(store.DefaultProofPath)
	require.NoError(t, err)
	require.Equal(t, "groth16", p.Scheme)

	ks, err := store.NewKeyStore(config.DefaultKeysDir)
	require.NoError(t, err)
	_, err = os.Stat(ks.VerifyingKeyPath(p.Scheme, p.Shape))
	require.NoError(t, err)

	// A separate invocation finds the verifying key in the default key store.
	_, err = run(t, "verify", "--log-level", "error", store.DefaultProofPath)
	require.NoError(t, err)

	_, err = run(t, "verify", "--log-level", "error",
		"--vk", filepath.Join(dir, ks.VerifyingKeyPath(p.Scheme, p.Shape)), store.DefaultProofPath)
	require.NoError(t, err)
}

func TestSecretFileRejectsSecretArgument(t *testing.T) {
	dir := t.TempDir()
	proofPath := filepath.Join(dir, "proof.json")
	_, err := run(t, "--scheme", "stub", "--log-level", "error", "--out", proofPath,
		"--secret-file", filepath.Join(dir, "secret.age"), "--identity", filepath.Join(dir, "key.txt"),
		sampleIPFSHash, relation.HashValueFor(sampleIPFSHash), "typed-secret")
	require.ErrorContains(t, err, "--secret-file replaces the <secret> argument")

	_, err = os.Stat(proofPath)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestInspect(t *testing.T) {
	_, err := run(t, "inspect", sampleIPFSHash)
	require.NoError(t, err)
}
