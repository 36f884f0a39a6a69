package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/balancebridge/bridge/core"
	"github.com/balancebridge/bridge/ports"
)

const pairingFile = "pairing.json"

// FileStore persists the pairing record as a JSON file under the data
// directory, so it survives process restarts. Writes go through a temp file
// and rename, so a crash mid-write never corrupts the previous record.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string) (ports.PairingStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, pairingFile)}, nil
}

// Get loads the active pairing from disk, or nil when none is stored.
func (s *FileStore) Get(ctx context.Context) (*core.Pairing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read pairing file: %w", err)
	}

	var p core.Pairing
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("invalid pairing file: %w", err)
	}
	return &p, nil
}

// Set validates the record and atomically replaces the persisted copy. The
// previous record is untouched on validation failure or write failure.
func (s *FileStore) Set(ctx context.Context, pairing *core.Pairing) error {
	if !pairing.Valid() {
		return fmt.Errorf("%w: pairing rejected by store", core.ErrInvalidPairingPayload)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(pairing, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize pairing: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write pairing file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace pairing file: %w", err)
	}
	return nil
}

// Clear removes the persisted pairing; clearing an empty store is fine.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove pairing file: %w", err)
	}
	return nil
}
