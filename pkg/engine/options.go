package engine

import (
	"time"

	"github.com/rs/zerolog"
)

// DefaultKeyCacheSize is the number of shapes whose keys stay in memory.
const DefaultKeyCacheSize = 8

// DefaultProveTimeout bounds a single Generate call.
const DefaultProveTimeout = 10 * time.Minute

type options struct {
	keyStore     KeyStore
	cacheSize    int
	proveTimeout time.Duration
	logger       zerolog.Logger
	stubKey      []byte
}

func defaultOptions() options {
	return options{
		cacheSize:    DefaultKeyCacheSize,
		proveTimeout: DefaultProveTimeout,
		logger:       zerolog.Nop(),
	}
}

// Option configures an engine.
type Option func(*options)

// WithKeyStore persists generated keys and reuses stored ones.
func WithKeyStore(ks KeyStore) Option {
	return func(o *options) { o.keyStore = ks }
}

// WithCacheSize sets the in-memory key cache size. Values below 1 are ignored.
func WithCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.cacheSize = n
		}
	}
}

// WithProveTimeout bounds Generate. Zero disables the bound; the caller's
// context still applies. When the bound fires Generate returns at once, but
// the gnark prover cannot be interrupted and keeps its goroutine and CPU
// until it completes; a warning is logged when it does.
func WithProveTimeout(d time.Duration) Option {
	return func(o *options) { o.proveTimeout = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStubKey sets the 32-byte MAC key of the stub engine.
func WithStubKey(key []byte) Option {
	return func(o *options) { o.stubKey = key }
}
