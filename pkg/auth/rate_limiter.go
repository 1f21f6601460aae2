package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per key
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	lastGC   time.Time
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows requestsPerMinute per key with the given burst
func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	if burst <= 0 {
		burst = requestsPerMinute
	}
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(float64(requestsPerMinute) / 60),
		burst:    burst,
		idleTTL:  10 * time.Minute,
		now:      time.Now,
	}
}

// Allow consumes a token for key
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	now := l.now()
	l.collect(now)

	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

// collect drops idle buckets; must be called with l.mu held
func (l *RateLimiter) collect(now time.Time) {
	if now.Sub(l.lastGC) < l.idleTTL {
		return
	}
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > l.idleTTL {
			delete(l.limiters, key)
		}
	}
	l.lastGC = now
}

// IPRateLimiter limits requests per client address
type IPRateLimiter struct {
	limiter *RateLimiter
}

func NewIPRateLimiter(requestsPerMinute, burst int) *IPRateLimiter {
	return &IPRateLimiter{limiter: NewRateLimiter(requestsPerMinute, burst)}
}

func (l *IPRateLimiter) Allow(ip string) bool {
	return l.limiter.Allow("ip:" + ip)
}

// UserRateLimiter limits requests per authenticated user
type UserRateLimiter struct {
	limiter *RateLimiter
}

func NewUserRateLimiter(requestsPerMinute, burst int) *UserRateLimiter {
	return &UserRateLimiter{limiter: NewRateLimiter(requestsPerMinute, burst)}
}

func (l *UserRateLimiter) Allow(userID string) bool {
	return l.limiter.Allow("user:" + userID)
}
