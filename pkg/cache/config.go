package cache

import "time"

// Config holds cache TTL values and key namespacing.
type Config struct {
	HiringListTTL time.Duration `json:"hiringListTTL"`
	KeyPrefix     string        `json:"keyPrefix"`
	TagPrefix     string        `json:"tagPrefix"`
}

// DefaultConfig returns default cache configuration
func DefaultConfig() Config {
	return Config{
		HiringListTTL: 2 * time.Minute,
		KeyPrefix:     "aaaogo:",
		TagPrefix:     "tag:",
	}
}
