package core

import "time"

// Pairing is the single active pairing between this client and a home-server
// node. It is created by decoding a pairing payload (usually scanned from the
// node's QR code), replaced wholesale on re-pairing and removed on unpair.
type Pairing struct {
	Version         int      `json:"version"`
	App             string   `json:"app"`
	ServerPublicKey string   `json:"nodePubkey"`
	Relays          []string `json:"relays"`
	NodeURL         string   `json:"nodeUrl,omitempty"`
}

// Valid reports whether the pairing satisfies the invariants every stored
// record must hold: a non-empty server public key and at least one non-blank
// relay URL.
func (p *Pairing) Valid() bool {
	if p == nil || p.ServerPublicKey == "" {
		return false
	}
	for _, r := range p.Relays {
		if r != "" {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, so stored records stay isolated from callers.
func (p *Pairing) Clone() *Pairing {
	if p == nil {
		return nil
	}
	out := *p
	out.Relays = append([]string(nil), p.Relays...)
	return &out
}

// Transaction is a single transaction reference in a lookup result.
type Transaction struct {
	TxID          string    `json:"txid"`
	Confirmations int64     `json:"confirmations"`
	Amount        int64     `json:"amount"`
	Timestamp     time.Time `json:"timestamp,omitempty"`
}

// LookupResult is the decoded payload of a successful bitcoin lookup.
// Balances are in satoshis.
type LookupResult struct {
	ConfirmedBalance   int64         `json:"confirmed_balance"`
	UnconfirmedBalance int64         `json:"unconfirmed_balance"`
	Transactions       []Transaction `json:"transactions"`
}

// Outcome is the single result delivered for one lookup request. Exactly one
// of Result and Err is set.
type Outcome struct {
	Result *LookupResult
	Err    error
}
