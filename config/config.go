// Package config loads daemon configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config contains all configuration parameters for the bridge client.
type Config struct {
	// DataDir holds the identity key and the pairing record
	DataDir string `envconfig:"DATA_DIR" default:"./data"`

	// ListenAddr is the HTTP listen address of the serve command
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":9080"`

	// LookupTimeout bounds how long each lookup waits for its response
	LookupTimeout time.Duration `envconfig:"LOOKUP_TIMEOUT" default:"30s"`

	// Relays overrides the pairing record's relay list (comma-separated),
	// for when the paired relays have gone stale
	Relays []string `envconfig:"RELAYS"`

	// RedisURL switches the pairing store and the event publisher to Redis
	// when set; the default is the file store and an in-process publisher
	RedisURL string `envconfig:"REDIS_URL"`

	// EncryptRequests applies NIP-04 encryption to outgoing lookup payloads
	EncryptRequests bool `envconfig:"ENCRYPT_REQUESTS" default:"false"`

	// Debug enables the diagnostic relay tap and verbose logging
	Debug bool `envconfig:"DEBUG" default:"false"`
}

// Load reads configuration from BRIDGE_* environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("bridge", cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return cfg, nil
}
