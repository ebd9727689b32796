package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ContextClientIPKey   = "client_ip"
	cfConnectingIPHeader = "CF-Connecting-IP"
)

// ClientIP resolves the caller address, preferring the CF-Connecting-IP
// header set by Cloudflare over the TCP peer address.
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextClientIPKey, resolveClientIP(c))
		c.Next()
	}
}

func resolveClientIP(c *gin.Context) string {
	if header := strings.TrimSpace(c.GetHeader(cfConnectingIPHeader)); header != "" {
		if ip := net.ParseIP(header); ip != nil {
			return ip.String()
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(c.Request.RemoteAddr))
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}

func GetClientIP(c *gin.Context) string {
	if ip := c.GetString(ContextClientIPKey); ip != "" {
		return ip
	}
	return resolveClientIP(c)
}
