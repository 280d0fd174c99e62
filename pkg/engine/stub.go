package engine

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog"
	"lukechampine.com/blake3"

	"zkl-file-verify/circuits/ipfsverify"
	"zkl-file-verify/pkg/relation"
)

const stubMACSize = 32

// defaultStubKey is used when no key is configured. Anyone holding it can
// forge stub proofs.
var defaultStubKey = blake3.Sum256([]byte("zkl-file-verify stub engine"))

// StubEngine checks the relation natively and binds the public outputs with a
// keyed BLAKE3 MAC. It detects tampering by parties without the key and
// provides no zero knowledge; it exists for tests and constrained builds.
type StubEngine struct {
	key   []byte
	keyID string
	log   zerolog.Logger
}

// NewStubEngine returns a stub engine. The key set with WithStubKey must be
// 32 bytes.
func NewStubEngine(opts ...Option) (*StubEngine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	key := o.stubKey
	if key == nil {
		key = defaultStubKey[:]
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: stub key must be 32 bytes, got %d", ErrEngineFailure, len(key))
	}
	id := blake3.Sum256(key)
	return &StubEngine{
		key:   append([]byte(nil), key...),
		keyID: hex.EncodeToString(id[:8]),
		log:   o.logger.With().Str("component", "engine").Str("scheme", string(StrategyStub)).Logger(),
	}, nil
}

func (e *StubEngine) Scheme() string { return string(StrategyStub) }

func (e *StubEngine) Generate(ctx context.Context, w relation.Witness) (*Proof, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngineFailure, err)
	}
	out, err := relation.Check(w)
	if err != nil {
		e.log.Debug().Object("witness", w).Err(err).Msg("relation does not hold")
		return nil, err
	}
	shape := ipfsverify.ShapeOf(w)
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngineFailure, err)
	}
	p := &Proof{
		Version:   ProofVersion,
		Scheme:    string(StrategyStub),
		Curve:     CurveBN254,
		CircuitID: e.keyID,
		Shape:     shape,
		Public:    out,
	}
	mac, err := e.mac(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngineFailure, err)
	}
	p.Material = mac
	e.log.Info().Str("shape", p.Shape.String()).Msg("proof generated")
	return p, nil
}

func (e *StubEngine) Check(p *Proof) error {
	if err := checkHeader(p, string(StrategyStub)); err != nil {
		return err
	}
	if p.CircuitID != e.keyID {
		return fmt.Errorf("%w: key ID mismatch: got %s, expected %s", ErrInvalidProof, p.CircuitID, e.keyID)
	}
	want, err := e.mac(p)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProof, err)
	}
	if subtle.ConstantTimeCompare(want, p.Material) != 1 {
		return fmt.Errorf("%w: MAC mismatch", ErrInvalidProof)
	}
	return nil
}

func (e *StubEngine) Verify(p *Proof) bool {
	if err := e.Check(p); err != nil {
		e.log.Debug().Err(err).Msg("proof rejected")
		return false
	}
	return true
}

// mac covers every field of p except Material.
func (e *StubEngine) mac(p *Proof) ([]byte, error) {
	unsigned := *p
	unsigned.Material = nil
	msg, err := CanonicalBytes(&unsigned)
	if err != nil {
		return nil, err
	}
	h := blake3.New(stubMACSize, e.key)
	h.Write(msg)
	return h.Sum(nil), nil
}
