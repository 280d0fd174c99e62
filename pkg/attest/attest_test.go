package attest

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/require"

	"zkl-file-verify/pkg/engine"
	"zkl-file-verify/pkg/relation"
)

func sampleProof(t *testing.T) *engine.Proof {
	t.Helper()
	e, err := engine.NewStubEngine()
	require.NoError(t, err)
	ipfsHash := "QmTPmBiqnUnL1k3W9GxmZTTtMSEX8rgpwqeCfYsJvodS2d"
	p, err := e.Generate(context.Background(), relation.Witness{
		IPFSHash:  ipfsHash,
		HashValue: relation.HashValueFor(ipfsHash),
		Secret:    "test-secret",
	})
	require.NoError(t, err)
	return p
}

func TestSignVerify(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	p := sampleProof(t)

	sig, err := Sign(priv, p)
	require.NoError(t, err)
	require.Len(t, sig.PubKey, 64)
	require.Len(t, sig.Signature, 128)
	require.NoError(t, Verify(p, sig))

	tampered := *p
	tampered.Public.Commitment = relation.Commitment(p.Public.DerivedHash.String(), "x")
	require.Error(t, Verify(&tampered, sig))

	other, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	otherSig, err := Sign(other, p)
	require.NoError(t, err)
	otherSig.PubKey = sig.PubKey
	require.Error(t, Verify(p, otherSig))
}

func TestParsePrivateKeyHex(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	parsed, err := ParsePrivateKeyHex(" " + hex.EncodeToString(priv.Serialize()) + "\n")
	require.NoError(t, err)
	require.True(t, parsed.PubKey().IsEqual(priv.PubKey()))

	_, err = ParsePrivateKeyHex("abcd")
	require.Error(t, err)
	_, err = ParsePrivateKeyHex("zz")
	require.Error(t, err)
}
