package middleware

import (
	"io"
	"net/http"
)

// bodies bigger than this are closed without draining, the connection is not worth reusing
const maxDrainBytes = 256 << 10

// DrainAndCloseRequest - avoid potential overhead and memory leaks by draining the request body and closing it
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.CopyN(io.Discard, r.Body, maxDrainBytes)
				_ = r.Body.Close()
			}
		})
	}
}
