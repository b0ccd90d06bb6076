package httpserver

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/skinlab/internal/metrics"
)

type clientWindow struct {
	count int
	start time.Time
}

// FixedWindowRateLimiter counts requests per client in windows that start
// with the client's first request.
type FixedWindowRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	limit   int
	window  time.Duration
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
}

func NewFixedWindowLimiter(limit int, window time.Duration) *FixedWindowRateLimiter {
	rl := &FixedWindowRateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

func (rl *FixedWindowRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for ip, cw := range rl.clients {
				if now.Sub(cw.start) >= rl.window {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *FixedWindowRateLimiter) Stop() { rl.once.Do(func() { close(rl.done) }) }

// Allow counts one request for ip. When the limit is reached it returns
// false and the time left in the current window.
func (rl *FixedWindowRateLimiter) Allow(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cw, ok := rl.clients[ip]
	if !ok || now.Sub(cw.start) >= rl.window {
		rl.clients[ip] = &clientWindow{count: 1, start: now}
		return true, 0
	}
	if cw.count < rl.limit {
		cw.count++
		return true, 0
	}
	return false, cw.start.Add(rl.window).Sub(now)
}

// RateLimit answers 429 with a Retry-After header once a client exhausts
// its window.
func RateLimit(rl *FixedWindowRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if ok, retry := rl.Allow(ip); !ok {
				metrics.RateLimitedTotal.Inc()
				log.Warn().Str("ip", ip).Str("path", r.URL.Path).Dur("retry_after", retry).Msg("rate limited")
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
				writeJSONError(w, http.StatusTooManyRequests, "Túl sok kérés. Kérjük, próbálja újra később.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
