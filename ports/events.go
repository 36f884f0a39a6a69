package ports

import "context"

// EventPublisher publishes lookup lifecycle events for diagnostics and
// external consumers. Publishing is best-effort; failures must not affect
// the lookup itself.
type EventPublisher interface {
	PublishLookupSent(ctx context.Context, requestID, query string) error
	PublishLookupResolved(ctx context.Context, requestID string, confirmed, unconfirmed int64) error
	PublishLookupFailed(ctx context.Context, requestID, reason string) error
}
