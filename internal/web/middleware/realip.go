package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// TrustedRealIP extracts the real client IP from X-Real-IP or
// X-Forwarded-For, but only when the request comes from a trusted proxy
// CIDR. Otherwise the original RemoteAddr stands, so untrusted clients
// cannot spoof forwarding headers to dodge rate limiting or falsify the
// export-history client IP.
func TrustedRealIP(trustedCIDRs []string) func(http.Handler) http.Handler {
	trustedNets := parseCIDRs(trustedCIDRs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remoteIP := extractIP(r.RemoteAddr)

			if len(trustedNets) > 0 && ipInNets(remoteIP, trustedNets) {
				if realIP := forwardedClientIP(r); realIP != "" {
					r.Header.Set("X-Real-IP", realIP)
				}
			} else {
				// Not from a trusted proxy: any forwarded headers are
				// client-controlled and must not be believed.
				r.Header.Set("X-Real-IP", remoteIP)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func parseCIDRs(cidrs []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, cidr := range cidrs {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}

		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Accept bare addresses like "127.0.0.1" as single-host nets
			if ip := net.ParseIP(cidr); ip != nil {
				mask := net.CIDRMask(128, 128)
				if ip.To4() != nil {
					mask = net.CIDRMask(32, 32)
				}
				nets = append(nets, &net.IPNet{IP: ip, Mask: mask})
			} else {
				slog.Warn("realip: invalid trusted proxy CIDR, skipping",
					"cidr", cidr, "error", err)
			}
			continue
		}
		nets = append(nets, network)
	}
	return nets
}

func ipInNets(ipText string, nets []*net.IPNet) bool {
	ip := net.ParseIP(ipText)
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

// forwardedClientIP returns the forwarded client address, preferring
// X-Real-IP over the first X-Forwarded-For hop.
func forwardedClientIP(r *http.Request) string {
	if v := r.Header.Get("X-Real-IP"); v != "" {
		return strings.TrimSpace(v)
	}
	if v := r.Header.Get("X-Forwarded-For"); v != "" {
		parts := strings.Split(v, ",")
		return strings.TrimSpace(parts[0])
	}
	return ""
}

// extractIP strips the port from a host:port RemoteAddr.
func extractIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
