package pkg

import (
	"net"
	"net/http"
	"regexp"
	"strings"
)

var localDockerIpRegex = regexp.MustCompile(`^172\.\d{1,3}\.0\.1$`)

// IPIsLocal reports whether the address belongs to the local machine or the docker bridge.
func IPIsLocal(ip string) bool {
	return ip == "127.0.0.1" || ip == "::1" || localDockerIpRegex.MatchString(ip)
}

// ClientIP returns the caller address of the request, preferring the proxy headers.
// The port, if any, is stripped, and local development callers collapse to "localhost".
func ClientIP(r *http.Request) string {
	addr := r.Header.Get("X-Real-Ip")
	if addr == "" {
		// the first entry is the original client
		addr, _, _ = strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
		addr = strings.TrimSpace(addr)
	}
	if addr == "" {
		addr = r.RemoteAddr
	}

	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	if IPIsLocal(addr) {
		return "localhost"
	}
	return addr
}
