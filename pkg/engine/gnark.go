package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"zkl-file-verify/circuits/ipfsverify"
	"zkl-file-verify/pkg/relation"
)

// GnarkEngine proves the relation with a gnark backend over BN254.
//
// Keys are generated once per shape and kept in an LRU cache; concurrent
// Generate calls for the same shape share one setup.
type GnarkEngine struct {
	scheme ipfsverify.Scheme
	opts   options
	log    zerolog.Logger
	cache  *lru.Cache[string, *ipfsverify.ProvingKeys]
	setups singleflight.Group
}

// NewGnarkEngine returns an engine for the named scheme ("groth16" or "plonk").
func NewGnarkEngine(schemeName string, opts ...Option) (*GnarkEngine, error) {
	scheme, err := ipfsverify.SchemeByName(schemeName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownStrategy, err)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	cache, err := lru.New[string, *ipfsverify.ProvingKeys](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("%w: key cache: %w", ErrEngineFailure, err)
	}
	return &GnarkEngine{
		scheme: scheme,
		opts:   o,
		log:    o.logger.With().Str("component", "engine").Str("scheme", scheme.Name()).Logger(),
		cache:  cache,
	}, nil
}

// Scheme returns the proving scheme name.
func (e *GnarkEngine) Scheme() string {
	return e.scheme.Name()
}

// Generate proves w. The relation is checked natively first so an
// unsatisfied witness never reaches the prover.
func (e *GnarkEngine) Generate(ctx context.Context, w relation.Witness) (*Proof, error) {
	out, err := relation.Check(w)
	if err != nil {
		e.log.Debug().Object("witness", w).Err(err).Msg("relation does not hold")
		return nil, err
	}

	shape := ipfsverify.ShapeOf(w)
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngineFailure, err)
	}

	if e.opts.proveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.proveTimeout)
		defer cancel()
	}

	keys, err := e.Keys(ctx, shape)
	if err != nil {
		return nil, err
	}

	type proveResult struct {
		res *ipfsverify.ProverResult
		err error
	}
	done := make(chan proveResult, 1)
	go func() {
		res, err := ipfsverify.Prove(keys, w, out)
		done <- proveResult{res, err}
	}()

	select {
	case <-ctx.Done():
		// gnark provers take no context; the abandoned run finishes on its own.
		go func(started time.Time) {
			r := <-done
			e.log.Warn().
				Str("shape", shape.String()).
				Dur("elapsed", time.Since(started)).
				AnErr("prove_err", r.err).
				Msg("abandoned prove finished")
		}(time.Now())
		return nil, fmt.Errorf("%w: proving aborted: %w", ErrEngineFailure, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEngineFailure, r.err)
		}
		e.log.Info().
			Str("shape", shape.String()).
			Int("constraints", r.res.Constraints).
			Dur("proving_time", r.res.ProvingTime).
			Int("proof_size", len(r.res.Proof)).
			Msg("proof generated")
		return &Proof{
			Version:   ProofVersion,
			Scheme:    e.scheme.Name(),
			Curve:     CurveBN254,
			CircuitID: keys.CircuitID,
			Shape:     shape,
			Public:    out,
			Material:  r.res.Proof,
		}, nil
	}
}

// Keys returns the keys for shape, loading them from the key store or
// running setup when they are not cached.
func (e *GnarkEngine) Keys(ctx context.Context, shape ipfsverify.Shape) (*ipfsverify.ProvingKeys, error) {
	key := cacheKey(e.scheme.Name(), shape)
	if k, ok := e.cache.Get(key); ok {
		return k, nil
	}

	ch := e.setups.DoChan(key, func() (interface{}, error) {
		if k, ok := e.cache.Get(key); ok {
			return k, nil
		}
		k, err := e.loadOrSetup(shape)
		if err != nil {
			return nil, err
		}
		e.cache.Add(key, k)
		return k, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: waiting for setup: %w", ErrEngineFailure, ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*ipfsverify.ProvingKeys), nil
	}
}

func (e *GnarkEngine) loadOrSetup(shape ipfsverify.Shape) (*ipfsverify.ProvingKeys, error) {
	if ks := e.opts.keyStore; ks != nil {
		k, err := ks.LoadKeys(e.scheme, shape)
		if err == nil {
			e.log.Debug().Str("shape", shape.String()).Str("circuit_id", k.CircuitID).Msg("keys loaded from store")
			return k, nil
		}
		if !errors.Is(err, ErrKeysNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrEngineFailure, err)
		}
	}

	e.log.Info().Str("shape", shape.String()).Msg("running circuit setup")
	k, err := ipfsverify.Setup(e.scheme, shape)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngineFailure, err)
	}
	e.log.Info().
		Str("shape", shape.String()).
		Str("circuit_id", k.CircuitID).
		Int("constraints", k.CCS.GetNbConstraints()).
		Msg("setup complete")

	if ks := e.opts.keyStore; ks != nil {
		if err := ks.SaveKeys(k); err != nil {
			e.log.Warn().Err(err).Str("shape", shape.String()).Msg("failed to persist keys")
		}
	}
	return k, nil
}

// lookupKeys never runs setup: fresh keys cannot verify an existing proof.
func (e *GnarkEngine) lookupKeys(shape ipfsverify.Shape) (*ipfsverify.ProvingKeys, error) {
	key := cacheKey(e.scheme.Name(), shape)
	if k, ok := e.cache.Get(key); ok {
		return k, nil
	}
	if e.opts.keyStore == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrKeysNotFound, e.scheme.Name(), shape)
	}
	k, err := e.opts.keyStore.LoadKeys(e.scheme, shape)
	if err != nil {
		return nil, err
	}
	e.cache.Add(key, k)
	return k, nil
}

// Check verifies p and explains a rejection.
func (e *GnarkEngine) Check(p *Proof) error {
	if err := checkHeader(p, e.scheme.Name()); err != nil {
		return err
	}
	keys, err := e.lookupKeys(p.Shape)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProof, err)
	}
	if p.CircuitID != keys.CircuitID {
		return fmt.Errorf("%w: circuit ID mismatch: got %s, expected %s", ErrInvalidProof, p.CircuitID, keys.CircuitID)
	}
	if err := ipfsverify.Verify(e.scheme, keys.VK, p.Shape, p.Material, p.Public); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProof, err)
	}
	return nil
}

// Verify reports whether p is a valid proof under this engine's keys.
func (e *GnarkEngine) Verify(p *Proof) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn().Interface("panic", r).Msg("verifier panicked on malformed proof")
			ok = false
		}
	}()
	if err := e.Check(p); err != nil {
		e.log.Debug().Err(err).Msg("proof rejected")
		return false
	}
	return true
}

// CheckWithVerifyingKey verifies p against an explicit serialized verifying
// key, without any engine state. The key must hash to p.CircuitID.
func CheckWithVerifyingKey(p *Proof, vkBytes []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: verifier panic: %v", ErrInvalidProof, r)
		}
	}()
	if p == nil {
		return fmt.Errorf("%w: nil proof", ErrInvalidProof)
	}
	scheme, err := ipfsverify.SchemeByName(p.Scheme)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProof, err)
	}
	if err := checkHeader(p, scheme.Name()); err != nil {
		return err
	}
	if err := ipfsverify.ValidateCircuitID(p.CircuitID, vkBytes); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProof, err)
	}
	vk, err := ipfsverify.ReadVerifyingKey(scheme, vkBytes)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProof, err)
	}
	if err := ipfsverify.Verify(scheme, vk, p.Shape, p.Material, p.Public); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProof, err)
	}
	return nil
}

// CheckDetached verifies p outside a running engine. Stub proofs are
// checked with the stub MAC key taken from opts; gnark proofs need vkBytes.
func CheckDetached(p *Proof, vkBytes []byte, opts ...Option) error {
	if p != nil && p.Scheme == string(StrategyStub) {
		stub, err := NewStubEngine(opts...)
		if err != nil {
			return err
		}
		return stub.Check(p)
	}
	if len(vkBytes) == 0 {
		return fmt.Errorf("%w: %w: no verifying key", ErrInvalidProof, ErrKeysNotFound)
	}
	return CheckWithVerifyingKey(p, vkBytes)
}

func checkHeader(p *Proof, scheme string) error {
	switch {
	case p == nil:
		return fmt.Errorf("%w: nil proof", ErrInvalidProof)
	case p.Version != ProofVersion:
		return fmt.Errorf("%w: unsupported version %q", ErrInvalidProof, p.Version)
	case p.Scheme != scheme:
		return fmt.Errorf("%w: scheme %q, expected %q", ErrInvalidProof, p.Scheme, scheme)
	case p.Curve != CurveBN254:
		return fmt.Errorf("%w: unsupported curve %q", ErrInvalidProof, p.Curve)
	case len(p.Material) == 0:
		return fmt.Errorf("%w: empty proof material", ErrInvalidProof)
	}
	if err := p.Shape.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProof, err)
	}
	return nil
}
