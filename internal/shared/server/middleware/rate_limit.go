package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"legal-file-auditor/internal/shared/metrics"
	"legal-file-auditor/internal/shared/server/respond"
)

const (
	defaultRateLimitGroup = "DEFAULT"

	// Buckets untouched for this long are refilled anyway, so they are dropped.
	bucketIdleTTL   = 10 * time.Minute
	pruneEveryCalls = 1024
)

// RateLimitRule is a token bucket refilled at Rate tokens per second.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

// RateLimitConfig selects a rule per request. GroupFor names the route group
// and KeyFor the caller; both fall back to defaults when nil or empty.
type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	KeyFor       func(*gin.Context) string
	Limiter      *RateLimiter
}

// RateLimiter holds one token bucket per caller and group.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	now     func() time.Time
	calls   int
}

type rateBucket struct {
	tokens float64
	seen   time.Time
}

// NewRateLimiter returns an empty limiter. now defaults to time.Now.
func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		now:     now,
	}
}

// RateLimit throttles requests per caller and route group. Routes whose
// group has no rule pass through.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = defaultRateLimitGroup
	}
	return func(c *gin.Context) {
		group := pick(cfg.GroupFor, c, cfg.DefaultGroup)
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		caller := pick(cfg.KeyFor, c, c.ClientIP())
		wait, allowed := cfg.Limiter.Take(caller+"|"+group, rule)
		if allowed {
			c.Next()
			return
		}

		metrics.IncRateLimited(group)
		waitMs := wait.Milliseconds()
		if waitMs <= 0 {
			waitMs = 1000
		}
		c.Header("Retry-After", strconv.FormatInt((waitMs+999)/1000, 10))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many requests", gin.H{
			"group":        group,
			"retryAfterMs": waitMs,
		})
	}
}

func pick(fn func(*gin.Context) string, c *gin.Context, fallback string) string {
	if fn != nil {
		if v := strings.TrimSpace(fn(c)); v != "" {
			return v
		}
	}
	return strings.TrimSpace(fallback)
}

// Take spends one token from key's bucket. When the bucket is empty it
// reports how long until the next token.
func (l *RateLimiter) Take(key string, rule RateLimitRule) (time.Duration, bool) {
	if l == nil || rule.Rate <= 0 || rule.Burst <= 0 {
		return 0, true
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls++
	if l.calls%pruneEveryCalls == 0 {
		l.prune(now)
	}

	capacity := float64(rule.Burst)
	b, ok := l.buckets[key]
	if !ok {
		b = &rateBucket{tokens: capacity, seen: now}
		l.buckets[key] = b
	}
	if elapsed := now.Sub(b.seen).Seconds(); elapsed > 0 {
		b.tokens = math.Min(capacity, b.tokens+elapsed*rule.Rate)
	}
	b.seen = now

	if b.tokens >= 1 {
		b.tokens--
		return 0, true
	}
	secs := (1 - b.tokens) / rule.Rate
	return time.Duration(math.Ceil(secs*1000)) * time.Millisecond, false
}

// Len reports the number of live buckets.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *RateLimiter) prune(now time.Time) {
	for k, b := range l.buckets {
		if now.Sub(b.seen) > bucketIdleTTL {
			delete(l.buckets, k)
		}
	}
}
