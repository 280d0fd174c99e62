package engine

import (
	"fmt"
	"sync"

	"zkl-file-verify/circuits/ipfsverify"
)

// KeyStore persists keys per scheme and shape. LoadKeys returns an error
// wrapping ErrKeysNotFound when nothing is stored.
type KeyStore interface {
	LoadKeys(scheme ipfsverify.Scheme, shape ipfsverify.Shape) (*ipfsverify.ProvingKeys, error)
	SaveKeys(keys *ipfsverify.ProvingKeys) error
}

// MemoryKeyStore keeps keys in a map. It is safe for concurrent use.
type MemoryKeyStore struct {
	mu   sync.Mutex
	keys map[string]*ipfsverify.ProvingKeys
}

func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{keys: make(map[string]*ipfsverify.ProvingKeys)}
}

func (m *MemoryKeyStore) LoadKeys(scheme ipfsverify.Scheme, shape ipfsverify.Shape) (*ipfsverify.ProvingKeys, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.keys[cacheKey(scheme.Name(), shape)]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrKeysNotFound, scheme.Name(), shape)
	}
	return k, nil
}

func (m *MemoryKeyStore) SaveKeys(keys *ipfsverify.ProvingKeys) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[cacheKey(keys.Scheme.Name(), keys.Shape)] = keys
	return nil
}

func cacheKey(scheme string, shape ipfsverify.Shape) string {
	return scheme + "/" + shape.String()
}
