package middleware

import (
	"net/http"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/gymsignal/internal/telemetry/tracing"
	"github.com/2beens/gymsignal/pkg"
)

const TokenHeader = "X-GYMSIGNAL-TOKEN"

type AuthMiddlewareHandler struct {
	apiTokenHash        string
	allowedPaths        map[string]bool
	allowedGetPrefixes  []string
	verifiedTokensMutex sync.RWMutex
	verifiedTokens      map[string]bool
}

// NewAuthMiddlewareHandler protects all routes with the API token, whose bcrypt
// hash is given, except a few public read-only ones.
func NewAuthMiddlewareHandler(apiTokenHash string) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		apiTokenHash: apiTokenHash,
		allowedPaths: map[string]bool{
			"/":        true,
			"/version": true,
		},
		allowedGetPrefixes: []string{
			"/gymstats/catalog",
		},
		verifiedTokens: map[string]bool{},
	}
}

func (h *AuthMiddlewareHandler) pathIsAlwaysAllowed(method, path string) bool {
	if h.allowedPaths[path] {
		return true
	}
	if method != http.MethodGet {
		return false
	}
	for _, prefix := range h.allowedGetPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// tokenValid compares the token to the configured hash. bcrypt is slow on purpose,
// so tokens that already matched once are remembered.
func (h *AuthMiddlewareHandler) tokenValid(token string) bool {
	h.verifiedTokensMutex.RLock()
	known := h.verifiedTokens[token]
	h.verifiedTokensMutex.RUnlock()
	if known {
		return true
	}

	if !pkg.CheckTokenHash(token, h.apiTokenHash) {
		return false
	}

	h.verifiedTokensMutex.Lock()
	h.verifiedTokens[token] = true
	h.verifiedTokensMutex.Unlock()
	return true
}

func RequestToken(r *http.Request) string {
	if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(bearer)
	}
	return r.Header.Get(TokenHeader)
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.pathIsAlwaysAllowed(r.Method, r.URL.Path) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			authToken := RequestToken(r)
			if authToken == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			if !h.tokenValid(authToken) {
				log.Warnf("[invalid token] [auth middleware] unauthorized => %s from %s", r.URL.Path, pkg.ClientIP(r))
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "invalid-token")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
