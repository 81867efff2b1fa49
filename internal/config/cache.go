package config

import "time"

// CacheConfig controls the Redis response cache. Only the read-only
// item-details route is cached; item details are repeatable reads, so
// a short TTL only trades a little staleness for load.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads response cache settings from the environment
// with defaults.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 10*time.Second),
		Prefix:  getenv("CACHE_PREFIX", "cache"),
	}
}
