package config

import (
	"strings"
	"time"
)

// CacheConfig configures the Redis response cache.  Only the cellar
// layout route is cached: a layout is fixed once the cellar exists, so
// entries only go stale when the cellar is deleted, and that path
// invalidates explicitly.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

// cacheKeyStrategies are the values understood by the cache middleware.
// Every strategy keys on the caller; cached routes are owner-scoped and
// a hit is served before the handler checks ownership.
var cacheKeyStrategies = map[string]bool{
	"user_route":        true,
	"user_route_query":  true,
	"user_method_route": true,
}

// LoadCacheConfig reads CACHE_*.  Methods are upper-cased; an unknown
// key strategy, including the old route-only ones, falls back to
// user_route.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 10*time.Minute),
		KeyStrategy:  strings.ToLower(envStr("CACHE_KEY_STRATEGY", "user_route")),
		Prefix:       envStr("CACHE_PREFIX", "cellar:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	if !cacheKeyStrategies[cfg.KeyStrategy] {
		cfg.KeyStrategy = "user_route"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if len(cfg.Methods) == 0 {
		cfg.Methods = map[string]bool{"GET": true}
	}
	return cfg
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			m[p] = true
		}
	}
	return m
}
