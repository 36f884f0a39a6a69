package ports

import (
	"context"

	"github.com/balancebridge/bridge/core"
)

// PairingStore holds the single active pairing record. Implementations must
// make Set and Clear durable before returning, and a rejected Set must leave
// any previously stored record untouched.
type PairingStore interface {
	// Get returns the active pairing, or (nil, nil) when none is stored
	Get(ctx context.Context) (*core.Pairing, error)

	// Set validates and atomically replaces the active pairing
	Set(ctx context.Context, pairing *core.Pairing) error

	// Clear removes the active pairing and its persisted copy
	Clear(ctx context.Context) error
}
