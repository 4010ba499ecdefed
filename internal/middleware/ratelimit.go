package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// TokenBucket implements token bucket rate limiting
type TokenBucket struct {
	mu         sync.Mutex
	capacity   int
	tokens     int
	refillRate int // tokens per second
	lastRefill time.Time
	lastSeen   time.Time
}

func NewTokenBucket(capacity, refillRate int, now time.Time) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		lastRefill: now,
		lastSeen:   now,
	}
}

// allow takes a token. When none is left it reports how long until the next one,
// or zero if the bucket never refills.
func (tb *TokenBucket) allow(now time.Time) (bool, time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.lastSeen = now
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tokensToAdd := int(elapsed * float64(tb.refillRate))

	if tokensToAdd > 0 {
		tb.tokens += tokensToAdd
		if tb.tokens > tb.capacity {
			tb.tokens = tb.capacity
		}
		tb.lastRefill = now
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true, 0
	}
	if tb.refillRate <= 0 {
		return false, 0
	}
	wait := time.Second/time.Duration(tb.refillRate) - now.Sub(tb.lastRefill)
	return false, max(wait, time.Nanosecond)
}

const (
	sweepInterval = 5 * time.Minute
	bucketTTL     = 10 * time.Minute
)

// RateLimiter keeps one bucket per client key. Idle buckets are swept on access
// so the limiter owns no background goroutine.
type RateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*TokenBucket
	capacity   int
	refillRate int
	lastSweep  time.Time
	now        func() time.Time
}

func NewRateLimiter(capacity, refillRate int) *RateLimiter {
	if capacity <= 0 {
		capacity = 1
	}
	return &RateLimiter{
		buckets:    make(map[string]*TokenBucket),
		capacity:   capacity,
		refillRate: refillRate,
		lastSweep:  time.Now(),
		now:        time.Now,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	ok, _ := rl.Reserve(key)
	return ok
}

// Reserve is Allow that also returns the wait until key's next token when denied.
// The wait is zero for a limiter that never refills.
func (rl *RateLimiter) Reserve(key string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	if now.Sub(rl.lastSweep) > sweepInterval {
		rl.sweep(now)
	}
	bucket, ok := rl.buckets[key]
	if !ok {
		bucket = NewTokenBucket(rl.capacity, rl.refillRate, now)
		rl.buckets[key] = bucket
	}
	rl.mu.Unlock()

	return bucket.allow(now)
}

// sweep must be called with rl.mu held.
func (rl *RateLimiter) sweep(now time.Time) {
	for key, bucket := range rl.buckets {
		bucket.mu.Lock()
		idle := now.Sub(bucket.lastSeen) > bucketTTL
		bucket.mu.Unlock()
		if idle {
			delete(rl.buckets, key)
		}
	}
	rl.lastSweep = now
}

// RateLimit rejects requests with 429 once the caller's bucket is empty.
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ok, wait := limiter.Reserve(clientIP(r)); !ok {
				w.Header().Set("Retry-After", retryAfterSeconds(wait))
				WriteError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// retryAfterSeconds rounds wait up to whole seconds. A zero wait means no refill
// is coming, so clients are told to back off for a minute.
func retryAfterSeconds(wait time.Duration) string {
	if wait <= 0 {
		return "60"
	}
	secs := (wait + time.Second - 1) / time.Second
	return strconv.FormatInt(int64(secs), 10)
}

// clientIP is the remote address without its port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
