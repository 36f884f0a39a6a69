package relay

import (
	"context"
	"log/slog"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"github.com/balancebridge/bridge/ports"
)

// RunTap opens an independent subscription mirroring filter and logs every
// event it sees, until ctx is cancelled. It is a diagnostic consumer only:
// request correlation never depends on it, and the correlator tolerates the
// duplicate delivery it causes.
func RunTap(ctx context.Context, bus ports.RelayBus, filter nostr.Filter) {
	for ctx.Err() == nil {
		events, err := bus.Subscribe(ctx, filter, 0)
		if err != nil {
			slog.Warn("tap subscription failed", "error", err)
			select {
			case <-time.After(5 * time.Second):
				continue
			case <-ctx.Done():
				return
			}
		}

		for ev := range events {
			slog.Debug("tap event",
				"id", ev.ID,
				"kind", ev.Kind,
				"from", ev.PubKey,
				"created_at", ev.CreatedAt,
				"tags", len(ev.Tags))
		}
	}
}
