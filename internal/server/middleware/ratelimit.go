package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds per-IP rate limiting configuration.
type RateLimitConfig struct {
	// RequestsPerSecond is the refill rate per client IP.
	RequestsPerSecond float64
	// Burst is the maximum burst size per client IP.
	Burst int
	// Enabled controls whether rate limiting is active.
	Enabled bool
	// TrustProxy keys clients on X-Forwarded-For / X-Real-IP. Only set it
	// behind a proxy that overwrites those headers; otherwise any caller
	// can pick a fresh key per request.
	TrustProxy bool
}

// maxTrackedIPs bounds the limiter map. When full, the least recently
// seen client is dropped.
const maxTrackedIPs = 10000

type ipEntry struct {
	limiter *rate.Limiter
	seen    uint64
}

// perIPLimiter manages token buckets per client IP.
type perIPLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipEntry
	rps      rate.Limit
	burst    int
	max      int
	tick     uint64
}

func newPerIPLimiter(rps float64, burst, max int) *perIPLimiter {
	return &perIPLimiter{
		limiters: make(map[string]*ipEntry),
		rps:      rate.Limit(rps),
		burst:    burst,
		max:      max,
	}
}

func (l *perIPLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tick++
	e, exists := l.limiters[ip]
	if !exists {
		if len(l.limiters) >= l.max {
			l.evictOldest()
		}
		e = &ipEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[ip] = e
	}
	e.seen = l.tick
	return e.limiter
}

// evictOldest must be called with mu held.
func (l *perIPLimiter) evictOldest() {
	var oldest string
	var oldestSeen uint64
	first := true
	for ip, e := range l.limiters {
		if first || e.seen < oldestSeen {
			oldest, oldestSeen, first = ip, e.seen, false
		}
	}
	delete(l.limiters, oldest)
}

func (l *perIPLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// RateLimit limits request rate per client IP using a token bucket.
func RateLimit(config RateLimitConfig) Middleware {
	if !config.Enabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	ipLimiter := newPerIPLimiter(config.RequestsPerSecond, config.Burst, maxTrackedIPs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ipLimiter.getLimiter(getClientIP(r, config.TrustProxy)).Allow() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP from the request. Forwarding headers
// are read only when the proxy in front is trusted.
func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// First hop of X-Forwarded-For is the original client
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
