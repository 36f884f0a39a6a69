// Package protocol implements the wire contract between the client and the
// paired node: event kinds, correlation tags, the lookup payloads and the
// pairing payload. Everything here is pure and stateless.
package protocol

import (
	"encoding/json"

	"github.com/nbd-wtf/go-nostr"
)

const (
	// RequestKind is the event kind for client-to-node lookup requests
	RequestKind = 30078

	// ResponseKind is the event kind for node-to-client replies
	ResponseKind = 30079

	// TagRequest carries the correlation identifier on both request and
	// response events
	TagRequest = "req"

	// TagPeer addresses an event to a public key
	TagPeer = "p"

	// RequestType is the type discriminator inside a lookup request payload
	RequestType = "bitcoin_lookup"

	// DefaultApp is the application identifier the node puts in its pairing
	// payload
	DefaultApp = "umbrel-balancebridge"
)

// DefaultRelays is the public relay set both sides fall back to when no
// relay list is configured. The node uses the same list, so a pairing that
// somehow names no relays still has a chance of meeting its peer here.
var DefaultRelays = []string{
	"wss://relay.damus.io",
	"wss://nostr.wine",
	"wss://relay.primal.net",
	"wss://nos.lol",
	"wss://relay.snort.social",
}

// LookupRequest is the JSON body of a request event.
type LookupRequest struct {
	Type  string `json:"type"`
	Query string `json:"query"`
}

// EncodeLookupRequest serializes the request payload for a query.
func EncodeLookupRequest(query string) ([]byte, error) {
	return json.Marshal(LookupRequest{Type: RequestType, Query: query})
}

// NewLookupEvent builds the unsigned request event for one lookup. The
// correlation identifier travels as a dedicated "req" tag so responses can be
// matched by an exact tag lookup, and the "p" tag addresses the paired node.
func NewLookupEvent(requestID, serverPubKey, content string, createdAt nostr.Timestamp) nostr.Event {
	return nostr.Event{
		CreatedAt: createdAt,
		Kind:      RequestKind,
		Tags: nostr.Tags{
			{TagRequest, requestID},
			{TagPeer, serverPubKey},
		},
		Content: content,
	}
}

// ResponseFilter matches the reply to one request: the response kind, the
// node's pubkey as author, the request's correlation tag and a time
// lower-bound no earlier than issuance.
func ResponseFilter(requestID, serverPubKey string, since nostr.Timestamp) nostr.Filter {
	return nostr.Filter{
		Kinds:   []int{ResponseKind},
		Authors: []string{serverPubKey},
		Tags:    nostr.TagMap{TagRequest: []string{requestID}},
		Since:   &since,
	}
}

// RequestID extracts the correlation identifier from an event's "req" tag,
// or "" when the tag is missing.
func RequestID(ev *nostr.Event) string {
	if tag := ev.Tags.GetFirst([]string{TagRequest}); tag != nil {
		return tag.Value()
	}
	return ""
}
