package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesAndPersists(t *testing.T) {
	dir := t.TempDir()

	first, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, first.PublicKey, 64)

	info, err := os.Stat(filepath.Join(dir, secretKeyFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// the keypair is stable across restarts
	second, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, first.PublicKey, second.PublicKey)
	assert.Equal(t, first.SecretKey(), second.SecretKey())
}

func TestLoadRejectsCorruptKey(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, secretKeyFile), []byte("not hex"), 0o600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestSign(t *testing.T) {
	id, err := Load(t.TempDir())
	require.NoError(t, err)

	ev := nostr.Event{Kind: 30078, CreatedAt: nostr.Now(), Content: "{}"}
	require.NoError(t, id.Sign(&ev))

	assert.Equal(t, id.PublicKey, ev.PubKey)
	assert.NotEmpty(t, ev.ID)
	assert.NotEmpty(t, ev.Sig)

	ok, err := ev.CheckSignature()
	require.NoError(t, err)
	assert.True(t, ok)
}
