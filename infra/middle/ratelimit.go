package middle

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mstgnz/gopos/infra/response"
)

// RateLimiter is a fixed-window limiter keyed by client IP
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     int
	window   time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	count       int
	windowStart time.Time
}

// quota is what one take left for the client
type quota struct {
	allowed   bool
	remaining int
	reset     time.Duration
}

// NewRateLimiter allows rate requests per minute per client. A non-positive
// rate falls back to 100.
func NewRateLimiter(rate int) *RateLimiter {
	if rate <= 0 {
		rate = 100
	}

	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   time.Minute,
		done:     make(chan struct{}),
	}
	go rl.cleanup()

	return rl
}

// Allow counts one request of clientIP and reports whether it fits the window
func (rl *RateLimiter) Allow(clientIP string) bool {
	return rl.take(clientIP).allowed
}

func (rl *RateLimiter) take(clientIP string) quota {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[clientIP]
	if !ok || now.Sub(v.windowStart) > rl.window {
		v = &visitor{windowStart: now}
		rl.visitors[clientIP] = v
	}

	reset := rl.window - now.Sub(v.windowStart)
	if v.count >= rl.rate {
		return quota{reset: reset}
	}
	v.count++
	return quota{allowed: true, remaining: rl.rate - v.count, reset: reset}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			for ip, v := range rl.visitors {
				if now.Sub(v.windowStart) > rl.window*2 {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// RateLimitMiddleware rejects clients over their quota with 429 and reports
// the quota in X-RateLimit-* headers
func RateLimitMiddleware(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := rl.take(GetClientIP(r))

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(rl.rate))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(q.remaining))
			if !q.allowed {
				secs := int(q.reset.Round(time.Second) / time.Second)
				if secs < 1 {
					secs = 1
				}
				h.Set("Retry-After", strconv.Itoa(secs))
				response.Error(w, http.StatusTooManyRequests, "Rate limit exceeded", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetClientIP returns the first forwarded address, X-Real-IP, or the peer
// address. IPv6 loopback is reported as 127.0.0.1.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return normalizeIP(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return normalizeIP(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return normalizeIP(host)
}

func normalizeIP(s string) string {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	if ip := net.ParseIP(s); ip != nil && ip.IsLoopback() && ip.To4() == nil {
		return "127.0.0.1"
	}
	return s
}
