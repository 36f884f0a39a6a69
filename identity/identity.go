// Package identity manages the client's persistent Nostr keypair. The
// keypair is generated once, stored as a hex-encoded secret key under the
// data directory, and is immutable for the lifetime of the installation:
// losing the secret half means the node can no longer recognize this client
// without re-pairing.
package identity

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nbd-wtf/go-nostr"
)

const secretKeyFile = "nostr_secret.hex"

// Identity is the client's stable keypair.
type Identity struct {
	PublicKey string

	secretKey string
}

// Load returns the identity stored under dir, generating and persisting a
// new keypair on first call. A storage failure here is fatal to startup; the
// client cannot operate without an identity.
func Load(dir string) (*Identity, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	path := filepath.Join(dir, secretKeyFile)

	raw, err := os.ReadFile(path)
	if err == nil {
		sk := strings.TrimSpace(string(raw))
		pk, err := nostr.GetPublicKey(sk)
		if err != nil {
			return nil, fmt.Errorf("invalid secret key in %s: %w", path, err)
		}
		slog.Debug("loaded persisted identity", "pubkey", pk)
		return &Identity{PublicKey: pk, secretKey: sk}, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read secret key: %w", err)
	}

	sk := nostr.GeneratePrivateKey()
	pk, err := nostr.GetPublicKey(sk)
	if err != nil {
		return nil, fmt.Errorf("failed to derive public key: %w", err)
	}
	if err := os.WriteFile(path, []byte(sk), 0o600); err != nil {
		return nil, fmt.Errorf("failed to persist secret key: %w", err)
	}
	slog.Info("generated new identity", "pubkey", pk)
	return &Identity{PublicKey: pk, secretKey: sk}, nil
}

// Sign signs the event in place with the identity's secret key.
func (id *Identity) Sign(ev *nostr.Event) error {
	ev.PubKey = id.PublicKey
	return ev.Sign(id.secretKey)
}

// SecretKey exposes the secret half for payload encryption.
func (id *Identity) SecretKey() string {
	return id.secretKey
}
