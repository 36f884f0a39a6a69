// Package service implements the request/response correlation engine that
// turns the broadcast, store-and-forward relay network into a point-to-point
// RPC abstraction: one outcome per request, no cross-delivery, bounded wait.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nbd-wtf/go-nostr"

	bridge "github.com/balancebridge/bridge"
	"github.com/balancebridge/bridge/core"
	"github.com/balancebridge/bridge/identity"
	"github.com/balancebridge/bridge/ports"
	"github.com/balancebridge/bridge/protocol"
)

const (
	// DefaultTimeout bounds how long a lookup waits for its response
	DefaultTimeout = 30 * time.Second

	// subscriptionGrace keeps the response subscription open slightly past
	// the deadline so the timer, not the transport, decides the timeout
	subscriptionGrace = 5 * time.Second
)

// Config carries the tunable policies of the lookup service.
type Config struct {
	// Timeout is the per-request deadline; DefaultTimeout when zero
	Timeout time.Duration

	// EncryptRequests applies NIP-04 encryption to outgoing lookup payloads
	EncryptRequests bool

	// RelayOverride replaces the pairing record's relay list when non-empty
	RelayOverride []string
}

// LookupService issues lookups against the paired node and correlates their
// responses. The pairing store and identity are read-only inputs; the
// pending map is the only state mutated from more than one goroutine.
type LookupService struct {
	identity *identity.Identity
	store    ports.PairingStore
	bus      ports.RelayBus
	eventPub ports.EventPublisher

	timeout       time.Duration
	encrypt       bool
	relayOverride []string

	mu        sync.Mutex
	pending   map[string]chan core.Outcome
	connected bool
	closed    bool

	// cancelled on Shutdown to stop every in-flight request task
	runCtx  context.Context
	runStop context.CancelFunc
}

var _ bridge.Client = (*LookupService)(nil)

// NewLookupService creates a lookup service. eventPub may be nil; lifecycle
// events are then skipped.
func NewLookupService(id *identity.Identity, store ports.PairingStore, bus ports.RelayBus, eventPub ports.EventPublisher, cfg Config) *LookupService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &LookupService{
		identity:      id,
		store:         store,
		bus:           bus,
		eventPub:      eventPub,
		timeout:       cfg.Timeout,
		encrypt:       cfg.EncryptRequests,
		relayOverride: cfg.RelayOverride,
		pending:       make(map[string]chan core.Outcome),
		runCtx:        ctx,
		runStop:       cancel,
	}
}

// Pair decodes and installs a pairing payload as the active pairing.
func (s *LookupService) Pair(ctx context.Context, payload []byte) (*core.Pairing, error) {
	pairing, err := protocol.DecodePairing(payload)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, pairing); err != nil {
		return nil, err
	}

	// a re-pairing may name a different relay set
	s.mu.Lock()
	s.connected = false
	s.mu.Unlock()

	slog.Info("paired", "server", pairing.ServerPublicKey, "relays", len(pairing.Relays))
	return pairing, nil
}

// Unpair removes the active pairing.
func (s *LookupService) Unpair(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.connected = false
	s.mu.Unlock()
	return nil
}

// Pairing returns the active pairing.
func (s *LookupService) Pairing(ctx context.Context) (*core.Pairing, error) {
	pairing, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if pairing == nil {
		return nil, core.ErrNotPaired
	}
	return pairing, nil
}

// Lookup sends a query and blocks until its single outcome: a result, a
// typed error or core.ErrTimeout at the configured deadline.
func (s *LookupService) Lookup(ctx context.Context, query string) (*core.LookupResult, error) {
	_, outcome, err := s.Send(ctx, query)
	if err != nil {
		return nil, err
	}
	select {
	case o := <-outcome:
		return o.Result, o.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Send issues a lookup and returns its correlation identifier together with
// a one-shot channel that receives exactly one outcome. A transport failure
// during publish is returned directly and registers no deadline.
func (s *LookupService) Send(ctx context.Context, query string) (string, <-chan core.Outcome, error) {
	pairing, err := s.Pairing(ctx)
	if err != nil {
		return "", nil, err
	}
	if err := s.ensureConnected(ctx, pairing); err != nil {
		return "", nil, err
	}

	requestID := uuid.NewString()

	// register before any network action, closing the race between the
	// publish and the first delivered response
	sink := make(chan core.Outcome, 1)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", nil, core.ErrCancelled
	}
	s.pending[requestID] = sink
	s.mu.Unlock()

	ev, issuedAt, err := s.buildRequest(requestID, pairing, query)
	if err != nil {
		s.take(requestID)
		return "", nil, err
	}

	if err := s.bus.Publish(ctx, ev); err != nil {
		s.take(requestID)
		s.publishFailed(ctx, requestID, err)
		return "", nil, err
	}

	filter := protocol.ResponseFilter(requestID, pairing.ServerPublicKey, issuedAt)
	events, err := s.bus.Subscribe(ctx, filter, s.timeout+subscriptionGrace)
	if err != nil {
		s.take(requestID)
		s.publishFailed(ctx, requestID, err)
		return "", nil, err
	}

	if s.eventPub != nil {
		if err := s.eventPub.PublishLookupSent(ctx, requestID, query); err != nil {
			slog.Warn("failed to publish lookup event", "request", requestID, "error", err)
		}
	}

	go s.await(requestID, pairing.ServerPublicKey, events)

	slog.Debug("lookup sent", "request", requestID, "event", ev.ID)
	return requestID, sink, nil
}

// Shutdown cancels all in-flight requests, delivering core.ErrCancelled to
// each still-pending sink, and closes every relay connection. Idempotent.
func (s *LookupService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	drained := s.pending
	s.pending = make(map[string]chan core.Outcome)
	s.mu.Unlock()

	s.runStop()
	for requestID, sink := range drained {
		sink <- core.Outcome{Err: core.ErrCancelled}
		slog.Debug("lookup cancelled", "request", requestID)
	}
	return s.bus.Shutdown(ctx)
}

// await owns one request's response subscription and deadline timer. They
// race; whichever resolves first removes the pending entry, and the loser
// finds it gone and does nothing.
func (s *LookupService) await(requestID, serverPubKey string, events <-chan nostr.Event) {
	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				// subscription ended early; the deadline still bounds the wait
				events = nil
				continue
			}
			if ev.PubKey != serverPubKey || protocol.RequestID(&ev) != requestID {
				continue
			}
			sink, live := s.take(requestID)
			if !live {
				// duplicate delivery from an overlapping subscription
				slog.Debug("discarding duplicate response", "request", requestID, "event", ev.ID)
				continue
			}
			outcome := s.decode(ev.Content, serverPubKey)
			sink <- outcome
			s.publishResolution(requestID, outcome)
			return

		case <-timer.C:
			if sink, live := s.take(requestID); live {
				sink <- core.Outcome{Err: core.ErrTimeout}
				s.publishFailed(context.Background(), requestID, core.ErrTimeout)
				slog.Debug("lookup timed out", "request", requestID)
			}
			return

		case <-s.runCtx.Done():
			// Shutdown already delivered ErrCancelled to drained sinks
			return
		}
	}
}

// take removes the pending entry exactly once; a false result means the
// request already resolved, expired or was cancelled.
func (s *LookupService) take(requestID string) (chan core.Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sink, ok := s.pending[requestID]
	if ok {
		delete(s.pending, requestID)
	}
	return sink, ok
}

func (s *LookupService) buildRequest(requestID string, pairing *core.Pairing, query string) (nostr.Event, nostr.Timestamp, error) {
	payload, err := protocol.EncodeLookupRequest(query)
	if err != nil {
		return nostr.Event{}, 0, fmt.Errorf("failed to encode request: %w", err)
	}

	content := string(payload)
	if s.encrypt {
		content, err = protocol.EncryptPayload(s.identity.SecretKey(), pairing.ServerPublicKey, payload)
		if err != nil {
			return nostr.Event{}, 0, err
		}
	}

	issuedAt := nostr.Now()
	ev := protocol.NewLookupEvent(requestID, pairing.ServerPublicKey, content, issuedAt)
	if err := s.identity.Sign(&ev); err != nil {
		return nostr.Event{}, 0, fmt.Errorf("failed to sign request: %w", err)
	}
	return ev, issuedAt, nil
}

func (s *LookupService) decode(content, serverPubKey string) core.Outcome {
	plain, err := protocol.MaybeDecrypt(s.identity.SecretKey(), serverPubKey, content)
	if err != nil {
		return core.Outcome{Err: fmt.Errorf("%w: %v", core.ErrMalformedResponse, err)}
	}
	result, err := protocol.DecodeResponse([]byte(plain))
	if err != nil {
		return core.Outcome{Err: err}
	}
	return core.Outcome{Result: result}
}

func (s *LookupService) ensureConnected(ctx context.Context, pairing *core.Pairing) error {
	s.mu.Lock()
	connected := s.connected
	s.mu.Unlock()
	if connected {
		return nil
	}

	relays := pairing.Relays
	if len(s.relayOverride) > 0 {
		relays = s.relayOverride
	}
	if len(relays) == 0 {
		relays = protocol.DefaultRelays
	}
	n, err := s.bus.Connect(ctx, relays)
	if err != nil {
		return err
	}
	slog.Info("connected to relays", "count", n, "configured", len(relays))

	s.mu.Lock()
	s.connected = true
	s.mu.Unlock()
	return nil
}

func (s *LookupService) publishResolution(requestID string, outcome core.Outcome) {
	if s.eventPub == nil {
		return
	}
	var err error
	if outcome.Err != nil {
		err = s.eventPub.PublishLookupFailed(context.Background(), requestID, outcome.Err.Error())
	} else {
		err = s.eventPub.PublishLookupResolved(context.Background(), requestID,
			outcome.Result.ConfirmedBalance, outcome.Result.UnconfirmedBalance)
	}
	if err != nil {
		slog.Warn("failed to publish lookup event", "request", requestID, "error", err)
	}
}

func (s *LookupService) publishFailed(ctx context.Context, requestID string, cause error) {
	if s.eventPub == nil {
		return
	}
	if err := s.eventPub.PublishLookupFailed(ctx, requestID, cause.Error()); err != nil {
		slog.Warn("failed to publish lookup event", "request", requestID, "error", err)
	}
}
