package relation

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const sampleIPFSHash = "QmTPmBiqnUnL1k3W9GxmZTTtMSEX8rgpwqeCfYsJvodS2d"

func trunc128(b []byte) string {
	d := sha256.Sum256(b)
	return new(big.Int).SetBytes(d[:16]).String()
}

func TestEvaluateSatisfied(t *testing.T) {
	hv := trunc128([]byte(sampleIPFSHash))
	require.Equal(t, hv, HashValueFor(sampleIPFSHash))

	w := Witness{IPFSHash: sampleIPFSHash, HashValue: hv, Secret: "test-secret"}
	out, ok := Evaluate(w)
	require.True(t, ok)
	require.Equal(t, hv, out.DerivedHash.String())
	require.Equal(t, trunc128([]byte(sampleIPFSHash+"test-secret")), out.Commitment.String())

	checked, err := Check(w)
	require.NoError(t, err)
	require.True(t, checked.Equal(out))
}

func TestEvaluateWrongHashValue(t *testing.T) {
	w := Witness{IPFSHash: sampleIPFSHash, HashValue: "123456789", Secret: "test-secret"}
	out, ok := Evaluate(w)
	require.False(t, ok)
	require.Equal(t, trunc128([]byte(sampleIPFSHash)), out.DerivedHash.String())

	_, err := Check(w)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrRelationUnsatisfied))
}

func TestHashValueNonDigitsIgnored(t *testing.T) {
	hv := HashValueFor(sampleIPFSHash)
	w := Witness{IPFSHash: sampleIPFSHash, HashValue: " " + hv[:5] + "_" + hv[5:] + "\n", Secret: "s"}

	_, ok := Evaluate(w)
	require.True(t, ok)

	err := ValidateHashValue(w.HashValue)
	require.True(t, errors.Is(err, ErrMalformedHashValue))
	require.NoError(t, ValidateHashValue(hv))
}

func TestSecretOnlyAffectsCommitment(t *testing.T) {
	hv := HashValueFor(sampleIPFSHash)
	a, okA := Evaluate(Witness{IPFSHash: sampleIPFSHash, HashValue: hv, Secret: "alpha"})
	b, okB := Evaluate(Witness{IPFSHash: sampleIPFSHash, HashValue: hv, Secret: "beta"})
	empty, okE := Evaluate(Witness{IPFSHash: sampleIPFSHash, HashValue: hv})

	require.True(t, okA && okB && okE)
	require.True(t, a.DerivedHash.Equal(b.DerivedHash))
	require.False(t, a.Commitment.Equal(b.Commitment))
	require.Equal(t, trunc128([]byte(sampleIPFSHash)), empty.Commitment.String())
}

func TestConcatenationHasNoSeparator(t *testing.T) {
	require.True(t, Commitment("ab", "c").Equal(Commitment("a", "bc")))
}

func TestEmptyIPFSHash(t *testing.T) {
	out, ok := Evaluate(Witness{HashValue: HashValueFor(""), Secret: "s"})
	require.True(t, ok)
	require.Equal(t, trunc128(nil), out.DerivedHash.String())
}

func TestWitnessRedaction(t *testing.T) {
	w := Witness{IPFSHash: sampleIPFSHash, HashValue: "1", Secret: "super-secret-value"}

	require.NotContains(t, w.String(), w.Secret)
	require.NotContains(t, fmt.Sprintf("%v %+v %#v", w, w, w), w.Secret)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Info().Object("witness", w).Msg("proving")
	require.NotContains(t, buf.String(), w.Secret)
	require.Contains(t, buf.String(), `"secret_len":18`)
	require.Contains(t, buf.String(), sampleIPFSHash)
}
