package ratelimiter

import "KneeHeal/backend/go/internal/config"

// RateLimiter reports whether one more request may proceed right now.
type RateLimiter interface {
	Allow() bool
}

// FromConfig builds the limiter configured for the HTTP service.
// It returns nil when rate limiting is disabled.
func FromConfig(cfg config.RateLimiterConfig) RateLimiter {
	if !cfg.Enabled {
		return nil
	}
	return NewTokenBucket(cfg.TokenBucket.Rate, cfg.TokenBucket.Capacity)
}
