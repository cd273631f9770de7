package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP stores the client IP under "real_ip". Forwarding headers are only
// honoured when the direct peer is one of trusted (IPs or CIDRs); then it
// prefers CF-Connecting-IP, the left-most X-Forwarded-For entry and
// X-Real-IP, in that order. Otherwise the peer address is used as is.
func RealIP(trusted []string) gin.HandlerFunc {
	nets := parseTrusted(trusted)
	return func(c *gin.Context) {
		c.Set("real_ip", realIP(c, nets))
		c.Next()
	}
}

func realIP(c *gin.Context, trusted []*net.IPNet) string {
	peer := c.RemoteIP()
	if !inNets(peer, trusted) {
		return peer
	}

	candidates := []string{c.GetHeader("CF-Connecting-IP")}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		candidates = append(candidates, first)
	}
	candidates = append(candidates, c.GetHeader("X-Real-IP"))

	for _, v := range candidates {
		if ip := net.ParseIP(strings.TrimSpace(v)); ip != nil {
			return ip.String()
		}
	}
	return peer
}

// parseTrusted skips entries that are neither an IP nor a CIDR.
func parseTrusted(list []string) []*net.IPNet {
	out := make([]*net.IPNet, 0, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if !strings.Contains(s, "/") {
			ip := net.ParseIP(s)
			if ip == nil {
				continue
			}
			bits := 8 * net.IPv6len
			if v4 := ip.To4(); v4 != nil {
				ip, bits = v4, 8*net.IPv4len
			}
			out = append(out, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		if _, n, err := net.ParseCIDR(s); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func inNets(addr string, nets []*net.IPNet) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
