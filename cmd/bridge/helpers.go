package main

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"

	"github.com/balancebridge/bridge/adapters/events"
	"github.com/balancebridge/bridge/adapters/store"
	"github.com/balancebridge/bridge/config"
	"github.com/balancebridge/bridge/identity"
	"github.com/balancebridge/bridge/ports"
	"github.com/balancebridge/bridge/relay"
	"github.com/balancebridge/bridge/service"
)

// buildService wires the identity, pairing store, relay pool and correlator
// from configuration. Lifecycle events are published only when withEvents is
// set; one-shot CLI commands skip them.
func buildService(cfg *config.Config, withEvents bool) (*service.LookupService, *relay.Pool, error) {
	if cfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	id, err := identity.Load(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		redisClient = redis.NewClient(opts)
	}

	var pairingStore ports.PairingStore
	if redisClient != nil {
		pairingStore = store.NewRedisStore(redisClient)
	} else {
		pairingStore, err = store.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
	}

	var eventPub ports.EventPublisher
	if withEvents {
		logger := watermill.NewStdLogger(false, false)
		if redisClient != nil {
			publisher, err := redisstream.NewPublisher(
				redisstream.PublisherConfig{
					Client: redisClient,
				},
				logger,
			)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to create Redis publisher: %w", err)
			}
			eventPub = events.NewWatermillPublisher(publisher)
		} else {
			eventPub = events.NewWatermillPublisher(gochannel.NewGoChannel(gochannel.Config{}, logger))
		}
	}

	pool := relay.NewPool()
	svc := service.NewLookupService(id, pairingStore, pool, eventPub, service.Config{
		Timeout:         cfg.LookupTimeout,
		EncryptRequests: cfg.EncryptRequests,
		RelayOverride:   cfg.Relays,
	})
	return svc, pool, nil
}
