package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/balancebridge/bridge/core"
)

// DecodePairing parses a pairing payload exchanged out-of-band (e.g. via QR
// code). It rejects the payload unless nodePubkey is non-empty and relays
// contains at least one non-blank URL; blank relay entries are dropped.
func DecodePairing(payload []byte) (*core.Pairing, error) {
	var p core.Pairing
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidPairingPayload, err)
	}

	relays := p.Relays[:0]
	for _, r := range p.Relays {
		if r != "" {
			relays = append(relays, r)
		}
	}
	p.Relays = relays

	if !p.Valid() {
		return nil, fmt.Errorf("%w: missing node pubkey or relays", core.ErrInvalidPairingPayload)
	}
	return &p, nil
}
