package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"privatelives/internal/handler/http/pathutil"
	"privatelives/internal/handler/http/respond"
	"privatelives/internal/observability/metrics"
)

// MsgRateLimited is shown when a visitor exhausts the bucket.
const MsgRateLimited = "För många förfrågningar. Vänta en stund och försök igen."

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-IP token bucket. It guards the routes that cost money
// per call (model and search APIs).
type RateLimiter struct {
	limit       rate.Limit
	burst       int
	ipExtractor IPExtractor
	now         func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewRateLimiter allows rps requests per second per IP with bursts of burst.
func NewRateLimiter(rps float64, burst int, ipExtractor IPExtractor) *RateLimiter {
	if ipExtractor == nil {
		ipExtractor = &RemoteAddrExtractor{}
	}
	return &RateLimiter{
		limit:       rate.Limit(rps),
		burst:       burst,
		ipExtractor: ipExtractor,
		now:         time.Now,
		visitors:    make(map[string]*visitor),
	}
}

// Middleware answers 429 with a Retry-After header once the bucket of the
// client IP is empty. Preflight requests are never counted.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		ip, err := rl.ipExtractor.ExtractIP(r)
		if err != nil {
			slog.Warn("rate limiter: IP extraction failed",
				slog.String("error", err.Error()),
				slog.String("remote_addr", r.RemoteAddr))
			ip = r.RemoteAddr
		}

		if ok, wait := rl.allow(ip); !ok {
			path := pathutil.NormalizePath(r.URL.Path)
			metrics.RateLimitedTotal.WithLabelValues(path).Inc()
			slog.Warn("rate limit exceeded",
				slog.String("ip", ip),
				slog.String("path", path))
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			respond.Message(w, http.StatusTooManyRequests, MsgRateLimited)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow consumes a token for ip. When refused it also returns how long until
// the next token.
func (rl *RateLimiter) allow(ip string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	rl.mu.Unlock()

	res := v.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		if delay < time.Second {
			delay = time.Second
		}
		return false, delay
	}
	return true, 0
}

// CleanupIdle forgets visitors not seen for maxIdle and returns how many
// remain. A forgotten visitor starts again with a full bucket.
func (rl *RateLimiter) CleanupIdle(maxIdle time.Duration) int {
	cutoff := rl.now().Add(-maxIdle)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
	return len(rl.visitors)
}

// ActiveKeys returns the number of tracked IPs.
func (rl *RateLimiter) ActiveKeys() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// StartCleanup runs CleanupIdle every interval until ctx is cancelled.
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("rate limit cleanup started", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			slog.Info("rate limit cleanup stopped")
			return
		case <-ticker.C:
			active := rl.CleanupIdle(maxIdle)
			slog.Debug("rate limit cleanup completed", slog.Int("active_ips", active))
		}
	}
}
