package middleware

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymsignal/pkg"
)

func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.WithFields(log.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"ip":       pkg.ClientIP(r),
				"ua":       r.Header.Get("User-Agent"),
				"duration": time.Since(start).String(),
			}).Trace(" ====> request")
		})
	}
}
