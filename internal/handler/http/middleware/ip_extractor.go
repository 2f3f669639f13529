// Package middleware holds the HTTP middleware specific to the API surface:
// client IP extraction, per-route rate limiting, CORS and security headers.
package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"wimbledon-api/pkg/config"
)

// IPExtractor resolves the client IP a request should be rate limited by.
type IPExtractor interface {
	ExtractIP(r *http.Request) (string, error)
}

// RemoteAddrExtractor uses the TCP connection address. It is the default:
// RemoteAddr cannot be spoofed by the client, unlike forwarding headers.
type RemoteAddrExtractor struct{}

// ExtractIP strips the port from r.RemoteAddr, handling IPv6 brackets.
func (RemoteAddrExtractor) ExtractIP(r *http.Request) (string, error) {
	return ipFromAddr(r.RemoteAddr)
}

// TrustedProxyConfig lists the reverse proxies whose forwarding headers are
// believed.
type TrustedProxyConfig struct {
	Enabled      bool
	AllowedCIDRs []netip.Prefix
}

// IsTrusted reports whether remoteAddr belongs to a configured proxy range.
func (c *TrustedProxyConfig) IsTrusted(remoteAddr string) bool {
	ip, err := ipFromAddr(remoteAddr)
	if err != nil {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, prefix := range c.AllowedCIDRs {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// LoadTrustedProxyConfig reads proxy trust settings from the environment.
//
//   - TRUST_PROXY: "true" enables header-based extraction (default false)
//   - TRUSTED_PROXIES: comma-separated IPs or CIDR ranges
//
// Enabling trust without naming any proxy is a configuration error: the
// loader fails closed instead of trusting everyone.
func LoadTrustedProxyConfig() (*TrustedProxyConfig, error) {
	cfg := &TrustedProxyConfig{
		Enabled: config.GetEnvBool("TRUST_PROXY", false),
	}
	if !cfg.Enabled {
		return cfg, nil
	}

	entries := config.GetEnvStringList("TRUSTED_PROXIES", nil)
	if len(entries) == 0 {
		return nil, fmt.Errorf("TRUST_PROXY is enabled but TRUSTED_PROXIES is empty")
	}

	for _, entry := range entries {
		prefix, err := netip.ParsePrefix(entry)
		if err != nil {
			addr, addrErr := netip.ParseAddr(entry)
			if addrErr != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: must be an IP or CIDR range", entry)
			}
			bits := 32
			if addr.Is6() {
				bits = 128
			}
			prefix = netip.PrefixFrom(addr, bits)
		}
		cfg.AllowedCIDRs = append(cfg.AllowedCIDRs, prefix)
	}
	return cfg, nil
}

// TrustedProxyExtractor reads X-Forwarded-For and X-Real-IP, but only when
// the direct peer is a trusted proxy. An untrusted peer presenting those
// headers is logged and falls back to RemoteAddr, closing the header
// spoofing route around rate limits.
type TrustedProxyExtractor struct {
	config *TrustedProxyConfig
}

// NewTrustedProxyExtractor creates the extractor.
func NewTrustedProxyExtractor(cfg *TrustedProxyConfig) *TrustedProxyExtractor {
	return &TrustedProxyExtractor{config: cfg}
}

func (e *TrustedProxyExtractor) ExtractIP(r *http.Request) (string, error) {
	if !e.config.Enabled {
		return ipFromAddr(r.RemoteAddr)
	}

	if !e.config.IsTrusted(r.RemoteAddr) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			slog.Warn("untrusted peer sent X-Forwarded-For",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("x_forwarded_for", xff))
		}
		return ipFromAddr(r.RemoteAddr)
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := xff
		if idx := strings.Index(xff, ","); idx >= 0 {
			first = xff[:idx]
		}
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String(), nil
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(strings.TrimSpace(xri)); ip != nil {
			return ip.String(), nil
		}
	}
	return ipFromAddr(r.RemoteAddr)
}

// ipFromAddr strips the port from an "IP:port" address. Addresses without a
// port are returned as-is when they parse as an IP.
func ipFromAddr(addr string) (string, error) {
	host, _, err := net.SplitHostPort(addr)
	if err == nil {
		return host, nil
	}
	if ip := net.ParseIP(addr); ip != nil {
		return ip.String(), nil
	}
	return "", fmt.Errorf("cannot extract IP from address %q", addr)
}
