package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balancebridge/bridge/core"
	"github.com/balancebridge/bridge/ports"
)

func validPairing() *core.Pairing {
	return &core.Pairing{
		Version:         1,
		App:             "umbrel-balancebridge",
		ServerPublicKey: "deadbeef",
		Relays:          []string{"wss://relay.damus.io"},
	}
}

// behaviors every PairingStore implementation must share
func runStoreTests(t *testing.T, newStore func(t *testing.T) ports.PairingStore) {
	ctx := context.Background()

	t.Run("empty store returns nil", func(t *testing.T) {
		s := newStore(t)
		got, err := s.Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, validPairing()))

		got, err := s.Get(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, validPairing(), got)
	})

	t.Run("invalid set leaves previous record unchanged", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, validPairing()))

		bad := &core.Pairing{ServerPublicKey: "other", Relays: nil}
		err := s.Set(ctx, bad)
		assert.ErrorIs(t, err, core.ErrInvalidPairingPayload)

		got, err := s.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, validPairing(), got)
	})

	t.Run("set replaces wholesale", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, validPairing()))

		next := validPairing()
		next.ServerPublicKey = "cafebabe"
		next.Relays = []string{"wss://nos.lol"}
		require.NoError(t, s.Set(ctx, next))

		got, err := s.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, next, got)
	})

	t.Run("clear", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, validPairing()))
		require.NoError(t, s.Clear(ctx))

		got, err := s.Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)

		// clearing an empty store is not an error
		require.NoError(t, s.Clear(ctx))
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) ports.PairingStore {
		return NewMemoryStore()
	})
}

func TestFileStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) ports.PairingStore {
		s, err := NewFileStore(t.TempDir())
		require.NoError(t, err)
		return s
	})
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	p := validPairing()
	require.NoError(t, s.Set(ctx, p))
	p.Relays[0] = "wss://mutated"

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "wss://relay.damus.io", got.Relays[0])

	got.ServerPublicKey = "mutated"
	again, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", again.ServerPublicKey)
}

func TestFileStoreSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, validPairing()))

	// a fresh store over the same directory sees the record
	second, err := NewFileStore(dir)
	require.NoError(t, err)
	got, err := second.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, validPairing(), got)

	require.NoError(t, second.Clear(ctx))
	_, err = os.Stat(filepath.Join(dir, pairingFile))
	assert.True(t, os.IsNotExist(err))
}
