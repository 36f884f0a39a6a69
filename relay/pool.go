// Package relay manages the client side of the relay network: outbound
// connections to the relay set named in the pairing record, event publishing
// and filtered subscriptions fanned in across all connected relays.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"github.com/balancebridge/bridge/core"
	"github.com/balancebridge/bridge/ports"
)

const dialTimeout = 10 * time.Second

// Pool implements the RelayBus interface over go-nostr relay connections.
// Relays connect and fail independently; partial connectivity is a valid
// operating state.
type Pool struct {
	mu     sync.Mutex
	relays map[string]*nostr.Relay
	closed bool

	// quit releases every open subscription on shutdown
	quitCtx  context.Context
	quitFunc context.CancelFunc
}

var _ ports.RelayBus = (*Pool)(nil)

// NewPool creates an unconnected pool.
func NewPool() *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		relays:   make(map[string]*nostr.Relay),
		quitCtx:  ctx,
		quitFunc: cancel,
	}
}

// Connect dials each relay URL independently and returns the number that
// connected. A relay that fails to parse or connect is logged and skipped;
// only zero successes is an error.
func (p *Pool) Connect(ctx context.Context, relays []string) (int, error) {
	connected := 0
	for _, url := range relays {
		if url == "" {
			continue
		}
		url = nostr.NormalizeURL(url)

		p.mu.Lock()
		_, dialed := p.relays[url]
		p.mu.Unlock()
		if dialed {
			connected++
			continue
		}

		dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		r, err := nostr.RelayConnect(dialCtx, url)
		cancel()
		if err != nil {
			slog.Warn("relay connection failed", "relay", url, "error", err)
			continue
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			_ = r.Close()
			return connected, core.ErrNoRelaysAvailable
		}
		p.relays[url] = r
		p.mu.Unlock()

		slog.Info("relay connected", "relay", url)
		connected++
	}

	if connected == 0 {
		return 0, core.ErrNoRelaysAvailable
	}
	return connected, nil
}

// Publish sends a signed event to all connected relays. It succeeds when at
// least one relay accepts the event.
func (p *Pool) Publish(ctx context.Context, ev nostr.Event) error {
	conns := p.snapshot()
	if len(conns) == 0 {
		return core.ErrNotConnected
	}

	var lastErr error
	accepted := 0
	for url, r := range conns {
		if err := r.Publish(ctx, ev); err != nil {
			slog.Warn("publish failed", "relay", url, "event", ev.ID, "error", err)
			lastErr = err
			continue
		}
		accepted++
	}
	if accepted == 0 {
		return fmt.Errorf("publish rejected by all relays: %w", lastErr)
	}
	return nil
}

// Subscribe opens the filter on every connected relay and fans the matching
// events into one channel. The channel closes when maxDuration elapses, ctx
// is cancelled or the pool shuts down. Each call is independent: overlapping
// subscriptions all receive every matching event, so the same physical event
// can surface more than once to consumers.
func (p *Pool) Subscribe(ctx context.Context, filter nostr.Filter, maxDuration time.Duration) (<-chan nostr.Event, error) {
	conns := p.snapshot()
	if len(conns) == 0 {
		return nil, core.ErrNotConnected
	}

	var subCtx context.Context
	var cancel context.CancelFunc
	if maxDuration > 0 {
		subCtx, cancel = context.WithTimeout(ctx, maxDuration)
	} else {
		subCtx, cancel = context.WithCancel(ctx)
	}

	// release the subscription when the pool shuts down
	go func() {
		select {
		case <-p.quitCtx.Done():
			cancel()
		case <-subCtx.Done():
		}
	}()

	out := make(chan nostr.Event, 16)
	var wg sync.WaitGroup
	for url, r := range conns {
		sub, err := r.Subscribe(subCtx, nostr.Filters{filter})
		if err != nil {
			slog.Warn("subscribe failed", "relay", url, "error", err)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ev := range sub.Events {
				if ev == nil {
					continue
				}
				select {
				case out <- *ev:
				case <-subCtx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		cancel()
		close(out)
	}()
	return out, nil
}

// Shutdown closes all relay connections and releases open subscriptions;
// idempotent.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	conns := p.relays
	p.relays = make(map[string]*nostr.Relay)
	p.mu.Unlock()

	p.quitFunc()
	for url, r := range conns {
		if err := r.Close(); err != nil {
			slog.Warn("relay close failed", "relay", url, "error", err)
		}
	}
	return nil
}

func (p *Pool) snapshot() map[string]*nostr.Relay {
	p.mu.Lock()
	defer p.mu.Unlock()

	conns := make(map[string]*nostr.Relay, len(p.relays))
	for url, r := range p.relays {
		conns[url] = r
	}
	return conns
}
