package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows burst requests at once, refilling one every interval.
func NewRateLimiter(interval time.Duration, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*visitor),
		limit:    rate.Every(interval),
		burst:    burst,
		idle:     time.Duration(burst) * interval * 2,
	}
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.limiters[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[ip] = v
	}
	v.lastSeen = now

	rl.cleanupLocked(now)
	return v.limiter.AllowN(now, 1)
}

// cleanupLocked drops visitors idle long enough for their bucket to be full.
func (rl *RateLimiter) cleanupLocked(now time.Time) {
	for ip, v := range rl.limiters {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.limiters, ip)
		}
	}
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r)

		if !rl.Allow(ip) {
			slog.Warn("rate limit exceeded",
				"ip", ip,
				"path", r.URL.Path,
			)
			http.Error(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
			return
		}

		next(w, r)
	}
}

// RateLimitAuth limits sign-in endpoints: 5 requests, then one every 3 minutes.
func RateLimitAuth() func(http.HandlerFunc) http.HandlerFunc {
	return NewRateLimiter(3*time.Minute, 5).Middleware
}

// getClientIP extracts real client IP from request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (proxy/load balancer)
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
