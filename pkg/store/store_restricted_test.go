//go:build restricted || (js && wasm)

package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRestrictedProfileHasNoFileIO(t *testing.T) {
	require.Equal(t, "restricted", Profile)
	_, _, err := LoadProof(DefaultProofPath)
	require.True(t, errors.Is(err, ErrFileIOUnavailable))
	require.True(t, errors.Is(SaveProof(DefaultProofPath, nil, "json"), ErrFileIOUnavailable))
	_, err = NewKeyStore("keys")
	require.True(t, errors.Is(err, ErrFileIOUnavailable))
}
