package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"gestoreventos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// fixed window per client IP
type ventana struct {
	count int
	fin   time.Time
}

// RateLimiter counts requests per IP in fixed windows.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu  sync.Mutex
	ips map[string]*ventana
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{limit: limit, window: window, now: time.Now, ips: make(map[string]*ventana)}
}

// Middleware rejects with 429 once an IP exceeds the limit in its window.
// A non-positive limit disables the limiter.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}
		ok, retry := rl.permitir(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) permitir(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.ips[ip]
	if !ok || now.After(v.fin) {
		v = &ventana{fin: now.Add(rl.window)}
		rl.ips[ip] = v
	}
	v.count++
	if v.count > rl.limit {
		return false, v.fin.Sub(now)
	}
	return true, 0
}

// StartPurge drops expired windows every interval until ctx is done, so IPs
// that never return do not accumulate.
func (rl *RateLimiter) StartPurge(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := rl.purgar(); n > 0 {
					log.Debug().Int("purged", n).Msg("rate limiter entries purged")
				}
			}
		}
	}()
}

func (rl *RateLimiter) purgar() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	n := 0
	for ip, v := range rl.ips {
		if now.After(v.fin) {
			delete(rl.ips, ip)
			n++
		}
	}
	return n
}
