package protocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balancebridge/bridge/core"
)

func TestDecodeResponseOK(t *testing.T) {
	payload := []byte(`{"status":"ok","result":{"confirmed_balance":5000,"unconfirmed_balance":0,"transactions":["abcd1234"]}}`)

	result, err := DecodeResponse(payload)
	require.NoError(t, err)

	assert.Equal(t, int64(5000), result.ConfirmedBalance)
	assert.Equal(t, int64(0), result.UnconfirmedBalance)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "abcd1234", result.Transactions[0].TxID)
}

func TestDecodeResponseObjectTransactions(t *testing.T) {
	payload := []byte(`{"status":"ok","result":{"confirmed_balance":1,"transactions":[
		{"txid":"aa","confirmations":3,"amount":-1500,"timestamp":1700000000},
		{"confirmations":9},
		"bb",
		42
	]}}`)

	result, err := DecodeResponse(payload)
	require.NoError(t, err)

	// the entry without a txid and the numeric entry are skipped, not fatal
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "aa", result.Transactions[0].TxID)
	assert.Equal(t, int64(3), result.Transactions[0].Confirmations)
	assert.Equal(t, int64(-1500), result.Transactions[0].Amount)
	assert.Equal(t, int64(1700000000), result.Transactions[0].Timestamp.Unix())
	assert.Equal(t, "bb", result.Transactions[1].TxID)
}

func TestDecodeResponseDefaults(t *testing.T) {
	result, err := DecodeResponse([]byte(`{"status":"ok","result":{}}`))
	require.NoError(t, err)

	assert.Zero(t, result.ConfirmedBalance)
	assert.Zero(t, result.UnconfirmedBalance)
	assert.Empty(t, result.Transactions)
}

func TestDecodeResponseServerError(t *testing.T) {
	_, err := DecodeResponse([]byte(`{"status":"error","error":"address not found"}`))

	var serverErr *core.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "address not found", serverErr.Message)
}

func TestDecodeResponseServerErrorDefaultMessage(t *testing.T) {
	_, err := DecodeResponse([]byte(`{"status":"error"}`))

	var serverErr *core.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "Unknown error", serverErr.Message)
}

func TestDecodeResponseEmptyResult(t *testing.T) {
	for _, payload := range []string{
		`{"status":"ok"}`,
		`{"status":"ok","result":null}`,
	} {
		_, err := DecodeResponse([]byte(payload))
		assert.ErrorIs(t, err, core.ErrEmptyResult, payload)
	}
}

func TestDecodeResponseUnexpectedStatus(t *testing.T) {
	_, err := DecodeResponse([]byte(`{"status":"pending"}`))

	require.ErrorIs(t, err, core.ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "pending")
}

func TestDecodeResponseMalformed(t *testing.T) {
	for _, payload := range []string{
		``,
		`not json`,
		`[1,2,3]`,
		`"a string"`,
		`{"no_status":true}`,
		`{"status":"ok","result":"not an object"}`,
	} {
		_, err := DecodeResponse([]byte(payload))
		assert.ErrorIs(t, err, core.ErrMalformedResponse, payload)
		assert.False(t, errors.As(err, new(*core.ServerError)), payload)
	}
}

func TestDecodeResponseIdempotent(t *testing.T) {
	payload := []byte(`{"status":"ok","result":{"confirmed_balance":7,"transactions":["x"]}}`)

	first, err := DecodeResponse(payload)
	require.NoError(t, err)
	second, err := DecodeResponse(payload)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
