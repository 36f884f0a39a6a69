package protocol

import (
	"fmt"
	"strings"

	"github.com/nbd-wtf/go-nostr/nip04"
)

// The node encrypts its pairing handshake but currently sends lookup traffic
// as plain JSON. Encryption here is a uniform policy: when enabled, request
// payloads are NIP-04 encrypted to the node and NIP-04-shaped response
// content is decrypted before decoding.

// EncryptPayload NIP-04 encrypts a payload for the peer.
func EncryptPayload(secretKey, peerPubKey string, payload []byte) (string, error) {
	shared, err := nip04.ComputeSharedSecret(peerPubKey, secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to compute shared secret: %w", err)
	}
	out, err := nip04.Encrypt(string(payload), shared)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt payload: %w", err)
	}
	return out, nil
}

// IsEncrypted reports whether content looks like a NIP-04 ciphertext.
func IsEncrypted(content string) bool {
	return strings.Contains(content, "?iv=")
}

// MaybeDecrypt returns content as-is unless it is NIP-04-shaped, in which
// case it is decrypted with the shared secret for the peer.
func MaybeDecrypt(secretKey, peerPubKey, content string) (string, error) {
	if !IsEncrypted(content) {
		return content, nil
	}
	shared, err := nip04.ComputeSharedSecret(peerPubKey, secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to compute shared secret: %w", err)
	}
	plain, err := nip04.Decrypt(content, shared)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt payload: %w", err)
	}
	return plain, nil
}
