package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jellydator/ttlcache/v3"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/mchain/internal/pkg/errcode"
	"github.com/xxxsen/mchain/internal/pkg/response"
)

type rateLimiter struct {
	window time.Duration
	seen   *ttlcache.Cache[string, struct{}]
}

// RateLimit allows one request per client ip and route within window.
// A non-positive window disables limiting.
func RateLimit(window time.Duration) gin.HandlerFunc {
	return newRateLimiter(window).handle
}

func newRateLimiter(window time.Duration) *rateLimiter {
	if window <= 0 {
		return &rateLimiter{}
	}
	seen := ttlcache.New[string, struct{}](
		ttlcache.WithTTL[string, struct{}](window),
		ttlcache.WithDisableTouchOnHit[string, struct{}](),
	)
	go seen.Start()
	return &rateLimiter{window: window, seen: seen}
}

func (l *rateLimiter) handle(c *gin.Context) {
	if l.window <= 0 {
		c.Next()
		return
	}
	ip := GetClientIP(c)
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	key := strings.Join([]string{ip, path}, "|")

	if _, limited := l.seen.GetOrSet(key, struct{}{}); limited {
		logutil.GetLogger(c.Request.Context()).Warn("rate limit hit",
			zap.String("ip", ip),
			zap.String("path", path),
		)
		response.Error(c, errcode.ErrTooMany, http.StatusText(http.StatusTooManyRequests))
		c.Abort()
		return
	}
	c.Next()
}

func (l *rateLimiter) stop() {
	if l.seen != nil {
		l.seen.Stop()
	}
}
