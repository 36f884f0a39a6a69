package ports

import (
	"context"
	"time"

	"github.com/nbd-wtf/go-nostr"
)

// RelayBus is the transport over the relay network: publish a signed event
// to every connected relay, or open a filtered subscription across them.
type RelayBus interface {
	// Connect dials each relay independently and returns how many connected.
	// It fails with core.ErrNoRelaysAvailable only when zero relays succeed.
	Connect(ctx context.Context, relays []string) (int, error)

	// Publish sends a signed event to all connected relays. It fails with
	// core.ErrNotConnected before any successful Connect.
	Publish(ctx context.Context, ev nostr.Event) error

	// Subscribe opens an independent filtered subscription. The returned
	// channel closes when maxDuration elapses, the context is cancelled or
	// the bus shuts down. Overlapping subscriptions each receive all
	// matching events, so consumers must tolerate duplicates.
	Subscribe(ctx context.Context, filter nostr.Filter, maxDuration time.Duration) (<-chan nostr.Event, error)

	// Shutdown closes all relay connections; idempotent.
	Shutdown(ctx context.Context) error
}
