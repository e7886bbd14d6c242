package api

import (
	"math"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

type rateLimiter interface {
	Allow() bool
}

type limiterAdapter struct {
	limiter *rate.Limiter
}

func newTokenBucketLimiter(ratePerSecond float64, burst int) rateLimiter {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}

	return &limiterAdapter{
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

func (l *limiterAdapter) Allow() bool {
	if l == nil || l.limiter == nil {
		return true
	}
	return l.limiter.Allow()
}

// retryAfterSeconds estimates when the next token is available, at least one second.
func retryAfterSeconds(limiter rateLimiter) int {
	adapter, ok := limiter.(*limiterAdapter)
	if !ok || adapter.limiter == nil {
		return 1
	}
	limit := float64(adapter.limiter.Limit())
	if limit <= 0 || math.IsInf(limit, 1) {
		return 1
	}
	return max(1, int(math.Ceil(1/limit)))
}

func rateLimitMiddleware(limiter rateLimiter, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limiter.Allow() {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(limiter)))
		writeError(w, http.StatusTooManyRequests, "Too many requests", "settings inspection is rate limited, retry shortly")
	})
}
