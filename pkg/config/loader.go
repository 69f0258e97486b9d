package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load populates cfg from environment variables using `env` struct tags.
//
// Example:
//
//	type Config struct {
//	    RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
//	    CartTTL   int    `env:"CART_TTL_HOURS" envDefault:"72"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
