package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balancebridge/bridge/core"
)

func TestDecodePairing(t *testing.T) {
	payload := []byte(`{
		"version": 1,
		"app": "umbrel-balancebridge",
		"nodePubkey": "deadbeef",
		"relays": ["wss://relay.damus.io", "", "wss://nos.lol"],
		"nodeUrl": "http://umbrel.local:3006"
	}`)

	pairing, err := DecodePairing(payload)
	require.NoError(t, err)

	assert.Equal(t, 1, pairing.Version)
	assert.Equal(t, DefaultApp, pairing.App)
	assert.Equal(t, "deadbeef", pairing.ServerPublicKey)
	assert.Equal(t, []string{"wss://relay.damus.io", "wss://nos.lol"}, pairing.Relays)
	assert.Equal(t, "http://umbrel.local:3006", pairing.NodeURL)
}

func TestDecodePairingRejected(t *testing.T) {
	cases := map[string]string{
		"not json":       `{{`,
		"missing pubkey": `{"version":1,"relays":["wss://a"]}`,
		"empty pubkey":   `{"version":1,"nodePubkey":"","relays":["wss://a"]}`,
		"missing relays": `{"version":1,"nodePubkey":"ab"}`,
		"empty relays":   `{"version":1,"nodePubkey":"ab","relays":[]}`,
		"blank relays":   `{"version":1,"nodePubkey":"ab","relays":["",""]}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			pairing, err := DecodePairing([]byte(payload))
			assert.ErrorIs(t, err, core.ErrInvalidPairingPayload)
			assert.Nil(t, pairing)
		})
	}
}
