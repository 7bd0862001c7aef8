package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// KeyFunc derives the rate limit key for a request.
type KeyFunc func(r *http.Request) string

// ClientIP keys requests by the host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimiter keeps one token bucket limiter per key. A limiter that sees no
// traffic for the idle TTL is evicted and starts full on the next request.
type RateLimiter struct {
	limiters *cache.Cache
}

// NewRateLimiter creates a RateLimiter whose per-key limiters expire after
// idleTTL without use.
func NewRateLimiter(idleTTL time.Duration) *RateLimiter {
	return &RateLimiter{
		limiters: cache.New(idleTTL, idleTTL),
	}
}

// Limit returns middleware allowing perMinute requests per key, with bursts of
// up to perMinute. A non-positive perMinute disables limiting.
func (rl *RateLimiter) Limit(perMinute int, key KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if perMinute <= 0 {
			return next
		}
		retryAfter := strconv.Itoa(60/perMinute + 1)
		scope := strconv.Itoa(perMinute) + "|"

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.limiter(scope+key(r), perMinute).Allow() {
				w.Header().Set("Retry-After", retryAfter)
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Len reports the number of live per-key limiters.
func (rl *RateLimiter) Len() int {
	return rl.limiters.ItemCount()
}

func (rl *RateLimiter) limiter(key string, perMinute int) *rate.Limiter {
	if v, ok := rl.limiters.Get(key); ok {
		lim := v.(*rate.Limiter)
		rl.limiters.Set(key, lim, cache.DefaultExpiration)
		return lim
	}

	lim := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	if err := rl.limiters.Add(key, lim, cache.DefaultExpiration); err != nil {
		if v, ok := rl.limiters.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return lim
}
