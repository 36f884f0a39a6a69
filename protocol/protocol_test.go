package protocol

import (
	"encoding/json"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLookupEvent(t *testing.T) {
	payload, err := EncodeLookupRequest("bc1qexample")
	require.NoError(t, err)

	var body LookupRequest
	require.NoError(t, json.Unmarshal(payload, &body))
	assert.Equal(t, RequestType, body.Type)
	assert.Equal(t, "bc1qexample", body.Query)

	now := nostr.Now()
	ev := NewLookupEvent("req-1", "serverpk", string(payload), now)

	assert.Equal(t, RequestKind, ev.Kind)
	assert.Equal(t, now, ev.CreatedAt)
	assert.Equal(t, string(payload), ev.Content)

	reqTag := ev.Tags.GetFirst([]string{TagRequest})
	require.NotNil(t, reqTag)
	assert.Equal(t, "req-1", reqTag.Value())

	peerTag := ev.Tags.GetFirst([]string{TagPeer})
	require.NotNil(t, peerTag)
	assert.Equal(t, "serverpk", peerTag.Value())
}

func TestRequestID(t *testing.T) {
	ev := NewLookupEvent("abc", "pk", "{}", nostr.Now())
	assert.Equal(t, "abc", RequestID(&ev))

	bare := nostr.Event{Kind: ResponseKind}
	assert.Empty(t, RequestID(&bare))
}

func TestResponseFilter(t *testing.T) {
	since := nostr.Timestamp(1700000000)
	filter := ResponseFilter("req-9", "serverpk", since)

	assert.Equal(t, []int{ResponseKind}, filter.Kinds)
	assert.Equal(t, []string{"serverpk"}, filter.Authors)
	assert.Equal(t, []string{"req-9"}, filter.Tags[TagRequest])
	require.NotNil(t, filter.Since)
	assert.Equal(t, since, *filter.Since)
}

func TestKindsAreDistinct(t *testing.T) {
	assert.NotEqual(t, RequestKind, ResponseKind)
}
