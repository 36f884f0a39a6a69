package bridge

import (
	"context"

	"github.com/balancebridge/bridge/core"
)

// Client represents the public interface for interacting with a paired
// home-server node over the relay network.
type Client interface {
	// Pair decodes a pairing payload (e.g. from a scanned QR code) and
	// installs it as the active pairing
	Pair(ctx context.Context, payload []byte) (*core.Pairing, error)

	// Unpair removes the active pairing
	Unpair(ctx context.Context) error

	// Pairing returns the active pairing, or core.ErrNotPaired
	Pairing(ctx context.Context) (*core.Pairing, error)

	// Lookup performs a bitcoin address or extended-key lookup against the
	// paired node and blocks until a result, a typed error or the timeout
	Lookup(ctx context.Context, query string) (*core.LookupResult, error)

	// Shutdown cancels all in-flight lookups and closes relay connections
	Shutdown(ctx context.Context) error
}
