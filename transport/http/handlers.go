package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	bridge "github.com/balancebridge/bridge"
	"github.com/balancebridge/bridge/core"
)

// maxPairingPayload bounds the accepted pairing body; QR payloads are small.
const maxPairingPayload = 16 << 10

// BridgeHandlers contains HTTP handlers for the bridge endpoints.
type BridgeHandlers struct {
	client bridge.Client
}

// NewBridgeHandlers creates new bridge handlers.
func NewBridgeHandlers(client bridge.Client) *BridgeHandlers {
	return &BridgeHandlers{client: client}
}

// Health reports liveness.
func (h *BridgeHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Pair installs the pairing payload posted as the raw request body.
func (h *BridgeHandlers) Pair(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPairingPayload))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	pairing, err := h.client.Pair(c.Request.Context(), payload)
	if err != nil {
		if errors.Is(err, core.ErrInvalidPairingPayload) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pairing payload"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store pairing"})
		return
	}

	c.JSON(http.StatusOK, pairingResponse(pairing))
}

// Pairing returns the active pairing.
func (h *BridgeHandlers) Pairing(c *gin.Context) {
	pairing, err := h.client.Pairing(c.Request.Context())
	if err != nil {
		if errors.Is(err, core.ErrNotPaired) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not paired"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load pairing"})
		return
	}

	c.JSON(http.StatusOK, pairingResponse(pairing))
}

// Unpair removes the active pairing.
func (h *BridgeHandlers) Unpair(c *gin.Context) {
	if err := h.client.Unpair(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove pairing"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unpaired"})
}

// Lookup performs a bitcoin lookup against the paired node.
func (h *BridgeHandlers) Lookup(c *gin.Context) {
	var req struct {
		Query          string `json:"query" binding:"required"`
		TimeoutSeconds int    `json:"timeout_seconds"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctx := c.Request.Context()
	if req.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	result, err := h.client.Lookup(ctx, req.Query)
	if err != nil {
		status, msg := lookupErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	txs := make([]gin.H, 0, len(result.Transactions))
	for _, tx := range result.Transactions {
		entry := gin.H{
			"txid":          tx.TxID,
			"confirmations": tx.Confirmations,
			"amount":        tx.Amount,
		}
		if !tx.Timestamp.IsZero() {
			entry["timestamp"] = tx.Timestamp
		}
		txs = append(txs, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"confirmed_balance":   result.ConfirmedBalance,
		"unconfirmed_balance": result.UnconfirmedBalance,
		"confirmed_btc":       FormatBTC(result.ConfirmedBalance),
		"unconfirmed_btc":     FormatBTC(result.UnconfirmedBalance),
		"transactions":        txs,
	})
}

// lookupErrorStatus maps the error taxonomy to HTTP status codes and
// human-readable messages.
func lookupErrorStatus(err error) (int, string) {
	var serverErr *core.ServerError
	switch {
	case errors.Is(err, core.ErrNotPaired):
		return http.StatusConflict, "Not paired with a node"
	case errors.Is(err, core.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Lookup timed out"
	case errors.Is(err, core.ErrNoRelaysAvailable):
		return http.StatusBadGateway, "No relays available"
	case errors.Is(err, core.ErrNotConnected):
		return http.StatusBadGateway, "Not connected to any relay"
	case errors.As(err, &serverErr):
		return http.StatusBadGateway, serverErr.Message
	case errors.Is(err, core.ErrMalformedResponse),
		errors.Is(err, core.ErrEmptyResult),
		errors.Is(err, core.ErrUnexpectedStatus):
		return http.StatusBadGateway, "Node returned an unreadable response"
	case errors.Is(err, core.ErrCancelled):
		return http.StatusServiceUnavailable, "Client is shutting down"
	default:
		return http.StatusInternalServerError, "Lookup failed"
	}
}

// FormatBTC renders a satoshi amount as a BTC decimal string.
func FormatBTC(sats int64) string {
	return decimal.NewFromInt(sats).Shift(-8).String()
}

func pairingResponse(p *core.Pairing) gin.H {
	return gin.H{
		"version":       p.Version,
		"app":           p.App,
		"server_pubkey": p.ServerPublicKey,
		"relays":        p.Relays,
		"node_url":      p.NodeURL,
	}
}
