package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/apierror"
)

// ipLimiter counts requests per client IP inside a fixed window. A window
// starts on the first hit and is discarded once it expires, so an idle IP
// costs nothing after the purge pass.
type ipLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	windows map[string]*ipWindow
}

type ipWindow struct {
	count int
	until time.Time
}

func newIPLimiter(limit int, window time.Duration) *ipLimiter {
	return &ipLimiter{limit: limit, window: window, windows: make(map[string]*ipWindow)}
}

// allow counts one hit for ip and reports whether it is still under the
// limit. When rejected it also returns the window end for a Retry-After hint.
func (l *ipLimiter) allow(ip string, now time.Time) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[ip]
	if !ok || now.After(w.until) {
		w = &ipWindow{until: now.Add(l.window)}
		l.windows[ip] = w
	}
	w.count++
	return w.count <= l.limit, w.until
}

// purge drops windows that already ended and returns how many were removed.
func (l *ipLimiter) purge(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for ip, w := range l.windows {
		if now.After(w.until) {
			delete(l.windows, ip)
			removed++
		}
	}
	return removed
}

func (l *ipLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

var loginLimiter = newIPLimiter(20, time.Minute)

// LoginRateLimiter caps login attempts at 20 per minute per IP, keeping
// brute-force traffic off the bcrypt path.
func LoginRateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, _ := loginLimiter.allow(c.ClientIP(), time.Now())
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Muitas tentativas de login. Tente em 1 minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter returns a per-IP fixed-window limiter for the whole API.
// Rejected requests carry a Retry-After header with the window end.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	lim := newIPLimiter(limit, window)
	registerForPurge(lim)

	return func(c *gin.Context) {
		ok, until := lim.allow(c.ClientIP(), time.Now())
		if !ok {
			c.Header("Retry-After", until.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Muitas requisicoes. Tente novamente em instantes."))
			return
		}
		c.Next()
	}
}

const purgeInterval = 5 * time.Minute

var (
	purgeMu      sync.Mutex
	purgeTargets = []*ipLimiter{loginLimiter}
)

func registerForPurge(l *ipLimiter) {
	purgeMu.Lock()
	purgeTargets = append(purgeTargets, l)
	purgeMu.Unlock()
}

func init() {
	go purgeLoop()
}

// purgeLoop walks every limiter on a ticker so IPs that never come back do
// not pile up in the maps.
func purgeLoop() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		purgeMu.Lock()
		targets := make([]*ipLimiter, len(purgeTargets))
		copy(targets, purgeTargets)
		purgeMu.Unlock()

		removed, kept := 0, 0
		for _, l := range targets {
			removed += l.purge(now)
			kept += l.size()
		}
		if removed > 0 {
			log.Debug().
				Int("removidos", removed).
				Int("restantes", kept).
				Msg("janelas de rate limit expiradas descartadas")
		}
	}
}
