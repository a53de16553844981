package api

import (
	"sync"

	"shareit/internal/config"

	"golang.org/x/time/rate"
)

const defaultBurst = 5

// keyedLimiter keeps one token bucket per client key.
type keyedLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func newKeyedLimiter(cfg config.APIRateLimitConfig) *keyedLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	return &keyedLimiter{rps: rate.Limit(cfg.RPS), burst: burst}
}

// allow always passes when no rate is configured.
func (l *keyedLimiter) allow(key string) bool {
	if l.rps <= 0 {
		return true
	}

	v, ok := l.limiters.Load(key)
	if !ok {
		v, _ = l.limiters.LoadOrStore(key, rate.NewLimiter(l.rps, l.burst))
	}
	return v.(*rate.Limiter).Allow()
}
