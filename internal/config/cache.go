package config

import "time"

// CacheConfig controls the per-user response cache on document reads.  It
// is off unless CACHE_ENABLED is set.  Entries live for TTL at most and are
// dropped from use as soon as any document is written.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string // Redis key prefix
	MaxBodyBytes int    // responses larger than this are not stored
}

// LoadCacheConfig reads CACHE_ENABLED, CACHE_TTL, CACHE_PREFIX and
// CACHE_MAX_BODY_BYTES.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", false),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       getenv("CACHE_PREFIX", "docs:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return cfg
}
