package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymsignal/internal/telemetry/metrics"
	"github.com/2beens/gymsignal/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=rate_limiting_mocks_test.go -package=middleware_test

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimit allows each client IP allowedPerMin requests per minute on the routes
// it wraps. A limiter failure lets the request through.
func RateLimit(
	rateLimiter RequestRateLimiter,
	metricsManager *metrics.Manager,
	routerName string,
	allowedPerMin int,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := routerName + ":" + pkg.ClientIP(r)
			res, err := rateLimiter.Allow(
				r.Context(),
				key,
				redis_rate.PerMinute(allowedPerMin),
			)
			if err != nil {
				log.Errorf("rate limit [%s]: %s", key, err)
				next.ServeHTTP(w, r)
				return
			}

			if res.Allowed > 0 {
				next.ServeHTTP(w, r)
				return
			}

			if metricsManager != nil {
				metricsManager.CounterRateLimitedRequests.Inc()
			}
			retryAfter := int(res.RetryAfter.Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, "too many requests, retry after "+strconv.Itoa(retryAfter)+"s", http.StatusTooManyRequests)
		})
	}
}
