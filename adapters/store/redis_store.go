package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/balancebridge/bridge/core"
	"github.com/balancebridge/bridge/ports"
)

// RedisStore is a Redis implementation of the PairingStore interface, for
// deployments where the bridge runs alongside other services sharing a Redis
// instance.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a new Redis store.
func NewRedisStore(client *redis.Client) ports.PairingStore {
	return &RedisStore{
		client: client,
		key:    "bridge:pairing",
	}
}

// Get loads the active pairing from Redis, or nil when none is stored.
func (s *RedisStore) Get(ctx context.Context) (*core.Pairing, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read pairing: %w", err)
	}

	var p core.Pairing
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("invalid pairing record: %w", err)
	}
	return &p, nil
}

// Set validates and replaces the active pairing.
func (s *RedisStore) Set(ctx context.Context, pairing *core.Pairing) error {
	if !pairing.Valid() {
		return fmt.Errorf("%w: pairing rejected by store", core.ErrInvalidPairingPayload)
	}

	raw, err := json.Marshal(pairing)
	if err != nil {
		return fmt.Errorf("failed to serialize pairing: %w", err)
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to store pairing: %w", err)
	}
	return nil
}

// Clear removes the active pairing.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear pairing: %w", err)
	}
	return nil
}
