// Package attest signs proof documents with BIP-340 Schnorr signatures so a
// verifier can tell who produced a proof.
package attest

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"zkl-file-verify/pkg/digest"
	"zkl-file-verify/pkg/engine"
)

// Signature binds a prover public key to a proof document.
type Signature struct {
	PubKey    string `json:"pubkey"`    // 32-byte x-only key, hex
	Digest    string `json:"digest"`    // SHA-256 of the canonical proof bytes, hex
	Signature string `json:"signature"` // 64 bytes (R || s), hex
}

// ProofDigest hashes the canonical CBOR encoding of p.
func ProofDigest(p *engine.Proof) (digest.Digest256, error) {
	b, err := engine.CanonicalBytes(p)
	if err != nil {
		return digest.Digest256{}, fmt.Errorf("canonical encoding failed: %w", err)
	}
	return digest.Sum(b), nil
}

// Sign produces a BIP-340 signature over ProofDigest(p).
func Sign(priv *btcec.PrivateKey, p *engine.Proof) (*Signature, error) {
	d, err := ProofDigest(p)
	if err != nil {
		return nil, err
	}
	sig, err := schnorr.Sign(priv, d[:])
	if err != nil {
		return nil, fmt.Errorf("schnorr sign failed: %w", err)
	}
	return &Signature{
		PubKey:    hex.EncodeToString(schnorr.SerializePubKey(priv.PubKey())),
		Digest:    d.Hex(),
		Signature: hex.EncodeToString(sig.Serialize()),
	}, nil
}

// Verify checks s against p. The digest is recomputed from p; the one in s
// is informational.
func Verify(p *engine.Proof, s *Signature) error {
	pubBytes, err := hex.DecodeString(s.PubKey)
	if err != nil {
		return fmt.Errorf("invalid public key encoding: %w", err)
	}
	pubKey, err := schnorr.ParsePubKey(pubBytes)
	if err != nil {
		return fmt.Errorf("invalid public key: %w", err)
	}

	sigBytes, err := hex.DecodeString(s.Signature)
	if err != nil {
		return fmt.Errorf("invalid signature encoding: %w", err)
	}
	if len(sigBytes) != schnorr.SignatureSize {
		return fmt.Errorf("invalid signature size: %d", len(sigBytes))
	}
	sig, err := schnorr.ParseSignature(sigBytes)
	if err != nil {
		return fmt.Errorf("invalid signature format: %w", err)
	}

	d, err := ProofDigest(p)
	if err != nil {
		return err
	}
	if !sig.Verify(d[:], pubKey) {
		return fmt.Errorf("signature verification failed")
	}
	return nil
}

// ParsePrivateKeyHex decodes a 32-byte hex private key, ignoring
// surrounding whitespace.
func ParsePrivateKeyHex(s string) (*btcec.PrivateKey, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid private key encoding: %w", err)
	}
	if len(b) != btcec.PrivKeyBytesLen {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", btcec.PrivKeyBytesLen, len(b))
	}
	priv, _ := btcec.PrivKeyFromBytes(b)
	return priv, nil
}
