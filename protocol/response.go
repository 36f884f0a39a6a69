package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/balancebridge/bridge/core"
)

// ResponseEnvelope is the JSON body of a response event before
// interpretation.
type ResponseEnvelope struct {
	Type   string          `json:"type"`
	Status string          `json:"status"`
	Req    string          `json:"req"`
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

type rawResult struct {
	ConfirmedBalance   int64             `json:"confirmed_balance"`
	UnconfirmedBalance int64             `json:"unconfirmed_balance"`
	Transactions       []json.RawMessage `json:"transactions"`
}

type rawTransaction struct {
	TxID          string `json:"txid"`
	Confirmations int64  `json:"confirmations"`
	Amount        int64  `json:"amount"`
	Timestamp     int64  `json:"timestamp"`
}

// DecodeResponse translates a response payload into a typed result or a
// typed error. Numeric fields default to zero, the transaction list defaults
// to empty and malformed individual transaction entries are skipped.
func DecodeResponse(payload []byte) (*core.LookupResult, error) {
	var env ResponseEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedResponse, err)
	}

	switch env.Status {
	case "ok":
		return decodeResult(env.Result)
	case "error":
		msg := env.Error
		if msg == "" {
			msg = "Unknown error"
		}
		return nil, &core.ServerError{Message: msg}
	case "":
		return nil, fmt.Errorf("%w: missing status field", core.ErrMalformedResponse)
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnexpectedStatus, env.Status)
	}
}

func decodeResult(raw json.RawMessage) (*core.LookupResult, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, core.ErrEmptyResult
	}

	var res rawResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("%w: bad result: %v", core.ErrMalformedResponse, err)
	}

	out := &core.LookupResult{
		ConfirmedBalance:   res.ConfirmedBalance,
		UnconfirmedBalance: res.UnconfirmedBalance,
		Transactions:       make([]core.Transaction, 0, len(res.Transactions)),
	}
	for _, entry := range res.Transactions {
		if tx, ok := decodeTransaction(entry); ok {
			out.Transactions = append(out.Transactions, tx)
		}
	}
	return out, nil
}

// decodeTransaction accepts both shapes the node emits: a bare txid string
// and an object with txid, confirmations, amount and timestamp.
func decodeTransaction(entry json.RawMessage) (core.Transaction, bool) {
	var txid string
	if err := json.Unmarshal(entry, &txid); err == nil {
		if txid == "" {
			return core.Transaction{}, false
		}
		return core.Transaction{TxID: txid}, true
	}

	var tx rawTransaction
	if err := json.Unmarshal(entry, &tx); err != nil || tx.TxID == "" {
		return core.Transaction{}, false
	}
	out := core.Transaction{
		TxID:          tx.TxID,
		Confirmations: tx.Confirmations,
		Amount:        tx.Amount,
	}
	if tx.Timestamp > 0 {
		out.Timestamp = time.Unix(tx.Timestamp, 0).UTC()
	}
	return out, true
}
