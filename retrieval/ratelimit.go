package retrieval

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/animica/da/daerrors"
)

// RateLimitTier configures the token bucket each remote IP gets: rate
// tokens/sec, burst up to Burst.
type RateLimitTier struct {
	Rate  rate.Limit
	Burst int
}

// DefaultTier is applied when a caller matches no more specific policy.
var DefaultTier = RateLimitTier{Rate: 20, Burst: 40}

// limiterSet holds one token bucket per remote IP, swept periodically so
// idle callers don't leak memory across a long-running process.
type limiterSet struct {
	mu       sync.Mutex
	tier     RateLimitTier
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
}

func newLimiterSet(tier RateLimitTier) *limiterSet {
	return &limiterSet{
		tier:     tier,
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
	}
}

func (l *limiterSet) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.tier.Rate, l.tier.Burst)
		l.limiters[ip] = lim
	}
	l.lastSeen[ip] = time.Now()
	return lim
}

// sweep drops limiter state untouched since before cutoff. The Server's
// sweepLoop, started by NewServer, runs it on a ticker.
func (l *limiterSet) sweep(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, seen := range l.lastSeen {
		if seen.Before(cutoff) {
			delete(l.limiters, ip)
			delete(l.lastSeen, ip)
		}
	}
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// rateLimitMiddleware rejects requests before any body is read or blob
// bytes are touched, per the backpressure ordering in the concurrency
// model: rate limits apply before expensive operations.
func rateLimitMiddleware(set *limiterSet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !set.get(remoteIP(r)).Allow() {
				writeError(w, http.StatusTooManyRequests, daerrors.KindResource, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
