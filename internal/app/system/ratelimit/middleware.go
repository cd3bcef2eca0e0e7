package ratelimit

import (
	"net/http"

	uierrors "github.com/dalemusser/hostpro/internal/app/features/errors"
	"github.com/dalemusser/hostpro/internal/app/system/apierr"
	"github.com/dalemusser/hostpro/internal/app/system/metrics"
	"go.uber.org/zap"
)

// TooManyRequests is the message sent with a 429.
const TooManyRequests = "Too many requests from this IP, please try again later."

// Middleware limits requests per client IP using a. backend labels the
// rate-limited metric ("memory" or "redis"). If a cannot decide, the
// request is let through and the error logged.
func Middleware(a Allower, backend string, log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			ok, err := a.Take(r.Context(), "ip:"+ip)
			if err != nil {
				log.Warn("rate limiter unavailable; allowing request",
					zap.String("backend", backend), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				metrics.ObserveRateLimited(backend)
				uierrors.Write(w, r, log, apierr.RateLimited(TooManyRequests))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
