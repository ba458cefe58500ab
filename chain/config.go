package chain

import (
	"time"

	"github.com/creasty/defaults"
)

// Config carries the tunables a ValidatorContext is constructed with,
// following blocky's config-struct-with-defaults idiom rather than the
// teacher's package-level var blocks (this system has no long-lived
// daemon config file to reload, just per-process settings).
type Config struct {
	// RecursiveResolver is the well-known recursive resolver address used
	// by internal helpers that only need cacheable lookups (SOA, A).
	RecursiveResolver string `default:"8.8.8.8:53"`

	// RootServer is the compile-time root-server address used only to
	// bootstrap the root zone.
	RootServer string `default:"198.41.0.4:53"`

	// QueryTimeout bounds a single UDP or TCP exchange.
	QueryTimeout time.Duration `default:"3s"`

	// Concurrency bounds how many chains the CLI driver's worker pool
	// validates at once.
	Concurrency int `default:"16"`
}

// NewConfig returns a Config with every default field populated.
func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
