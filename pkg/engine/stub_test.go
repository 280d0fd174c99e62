package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"zkl-file-verify/pkg/relation"
)

const sampleIPFSHash = "QmTPmBiqnUnL1k3W9GxmZTTtMSEX8rgpwqeCfYsJvodS2d"

func sampleWitness() relation.Witness {
	return relation.Witness{
		IPFSHash:  sampleIPFSHash,
		HashValue: relation.HashValueFor(sampleIPFSHash),
		Secret:    "test-secret",
	}
}

func newStub(t *testing.T) *StubEngine {
	t.Helper()
	e, err := NewStubEngine()
	require.NoError(t, err)
	return e
}

func TestStubGenerateVerify(t *testing.T) {
	e := newStub(t)
	p, err := e.Generate(context.Background(), sampleWitness())
	require.NoError(t, err)

	want, ok := relation.Evaluate(sampleWitness())
	require.True(t, ok)
	require.True(t, p.Public.Equal(want))
	require.Equal(t, ProofVersion, p.Version)
	require.Equal(t, "stub", p.Scheme)
	require.Len(t, p.Material, stubMACSize)

	require.True(t, e.Verify(p))
	require.True(t, e.Verify(p), "verify must be idempotent")
}

func TestStubGenerateUnsatisfied(t *testing.T) {
	w := sampleWitness()
	w.HashValue = "123456789"

	p, err := newStub(t).Generate(context.Background(), w)
	require.Nil(t, p)
	require.True(t, errors.Is(err, relation.ErrRelationUnsatisfied))
}

func TestStubGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newStub(t).Generate(ctx, sampleWitness())
	require.True(t, errors.Is(err, ErrEngineFailure))
	require.True(t, errors.Is(err, context.Canceled))
}

func TestStubRejectsTampering(t *testing.T) {
	e := newStub(t)
	p, err := e.Generate(context.Background(), sampleWitness())
	require.NoError(t, err)

	forged := *p
	forged.Public.Commitment = relation.Commitment(sampleIPFSHash, "other")
	require.False(t, e.Verify(&forged))

	forged = *p
	forged.Material = append([]byte(nil), p.Material...)
	forged.Material[0] ^= 1
	require.False(t, e.Verify(&forged))

	forged = *p
	forged.Shape.SecretLen++
	require.False(t, e.Verify(&forged))

	forged = *p
	forged.Scheme = "groth16"
	require.False(t, e.Verify(&forged))

	require.False(t, e.Verify(nil))
	require.True(t, e.Verify(p), "original must still verify")
}

func TestStubRejectsOtherKey(t *testing.T) {
	p, err := newStub(t).Generate(context.Background(), sampleWitness())
	require.NoError(t, err)

	key := make([]byte, 32)
	key[0] = 7
	other, err := NewStubEngine(WithStubKey(key))
	require.NoError(t, err)
	require.False(t, other.Verify(p))

	_, err = NewStubEngine(WithStubKey([]byte("short")))
	require.Error(t, err)
}

func TestProofCodecPreservesVerification(t *testing.T) {
	e := newStub(t)
	p, err := e.Generate(context.Background(), sampleWitness())
	require.NoError(t, err)

	for _, f := range []Format{FormatJSON, FormatCBOR} {
		t.Run(string(f), func(t *testing.T) {
			data, err := Marshal(p, f)
			require.NoError(t, err)

			back, got, err := Unmarshal(data)
			require.NoError(t, err)
			require.Equal(t, f, got)
			require.True(t, back.Public.Equal(p.Public))
			require.Equal(t, p.Shape, back.Shape)
			require.True(t, e.Verify(back))
		})
	}
}

func TestProofJSONHasDecimalSignals(t *testing.T) {
	p, err := newStub(t).Generate(context.Background(), sampleWitness())
	require.NoError(t, err)

	data, err := Marshal(p, FormatJSON)
	require.NoError(t, err)
	require.Contains(t, string(data), `"derived_hash": "`+relation.HashValueFor(sampleIPFSHash)+`"`)
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	_, _, err := Unmarshal([]byte("{not json"))
	require.Error(t, err)
	_, _, err = Unmarshal([]byte{0xff, 0x00, 0x01})
	require.Error(t, err)
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []string{"groth16", "plonk", "stub"} {
		st, err := ParseStrategy(s)
		require.NoError(t, err)
		require.Equal(t, Strategy(s), st)
	}
	_, err := ParseStrategy("zkvm")
	require.True(t, errors.Is(err, ErrUnknownStrategy))

	_, err = New("zkvm")
	require.True(t, errors.Is(err, ErrUnknownStrategy))

	e, err := New(StrategyStub)
	require.NoError(t, err)
	require.IsType(t, &StubEngine{}, e)
}

func TestCheckDetachedStubProof(t *testing.T) {
	p, err := newStub(t).Generate(context.Background(), sampleWitness())
	require.NoError(t, err)

	data, err := Marshal(p, FormatJSON)
	require.NoError(t, err)
	back, _, err := Unmarshal(data)
	require.NoError(t, err)

	// No verifying key is needed for stub proofs.
	require.NoError(t, CheckDetached(back, nil))
	require.NoError(t, CheckDetached(back, []byte("ignored")))

	other := make([]byte, 32)
	other[0] = 1
	require.True(t, errors.Is(CheckDetached(back, nil, WithStubKey(other)), ErrInvalidProof))

	back.Public.Commitment = relation.Commitment(sampleIPFSHash, "other-secret")
	require.True(t, errors.Is(CheckDetached(back, nil), ErrInvalidProof))
}
