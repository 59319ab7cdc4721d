package middleware

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

var allowedUserAgentPrefixes = []string{
	"GymSignal/",
	"curl/",
	"test-agent",
}

func Cors(allowedOrigins []string) func(next http.Handler) http.Handler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			userAgent := r.Header.Get("User-Agent")

			allowed := origins[origin] ||
				// MCP clients often send no Origin
				strings.HasPrefix(r.URL.Path, "/mcp")
			for _, prefix := range allowedUserAgentPrefixes {
				if strings.HasPrefix(userAgent, prefix) {
					allowed = true
				}
			}

			if !allowed {
				log.Warnf("CORS: origin not allowed for path [%s] and origin [%s]", r.URL.Path, origin)
				w.WriteHeader(http.StatusForbidden)
				return
			}

			allowOrigin := origin
			if allowOrigin == "" && strings.HasPrefix(r.URL.Path, "/mcp") {
				allowOrigin = "*"
			}
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			w.Header().Set("Access-Control-Allow-Headers",
				"Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, "+TokenHeader+", MCP-Protocol-Version, MCP-Session-Id",
			)
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")

			next.ServeHTTP(w, r)
		})
	}
}
