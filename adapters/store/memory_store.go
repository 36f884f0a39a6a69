package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/balancebridge/bridge/core"
	"github.com/balancebridge/bridge/ports"
)

// MemoryStore is an in-memory implementation of the PairingStore interface,
// used in tests and for ephemeral setups.
type MemoryStore struct {
	mu      sync.RWMutex
	pairing *core.Pairing
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() ports.PairingStore {
	return &MemoryStore{}
}

// Get returns a copy of the active pairing, or nil when none is stored.
func (s *MemoryStore) Get(ctx context.Context) (*core.Pairing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.pairing.Clone(), nil
}

// Set replaces the active pairing. An invalid record is rejected without
// touching the previous one.
func (s *MemoryStore) Set(ctx context.Context, pairing *core.Pairing) error {
	if !pairing.Valid() {
		return fmt.Errorf("%w: pairing rejected by store", core.ErrInvalidPairingPayload)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pairing = pairing.Clone()
	return nil
}

// Clear removes the active pairing.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pairing = nil
	return nil
}
