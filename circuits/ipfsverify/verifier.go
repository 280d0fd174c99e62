package ipfsverify

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"zkl-file-verify/pkg/digest"
)

// ComputeVKHash computes the SHA256 hash of raw VK bytes. It doubles as the
// circuit ID recorded in proof documents.
func ComputeVKHash(vkBytes []byte) string {
	hash := digest.Sum(vkBytes)
	return hex.EncodeToString(hash[:])
}

// ReadVerifyingKey deserializes a verifying key for scheme.
func ReadVerifyingKey(scheme Scheme, vkBytes []byte) (Key, error) {
	vk := scheme.NewVerifyingKey()
	if _, err := vk.ReadFrom(bytes.NewReader(vkBytes)); err != nil {
		return nil, fmt.Errorf("failed to deserialize VK: %w", err)
	}
	return vk, nil
}

// ValidateCircuitID checks that circuitID is the hash of vkBytes.
func ValidateCircuitID(circuitID string, vkBytes []byte) error {
	if expected := ComputeVKHash(vkBytes); circuitID != expected {
		return fmt.Errorf("circuit ID mismatch: got %s, expected %s", circuitID, expected)
	}
	return nil
}
