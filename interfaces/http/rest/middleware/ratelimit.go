package middleware

import (
	"context"
	"net"
	"net/http"
	"time"

	pkgerrors "feeder-workbench/pkg/errors"
)

// Limiter decides whether a client address may proceed
type Limiter interface {
	Allow(ctx context.Context, ip string) (bool, error)
}

// RateLimit rejects clients over their budget with 429.
// It runs after chi's RealIP so RemoteAddr is the client address.
func RateLimit(limiter Limiter, errs *pkgerrors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if host, _, err := net.SplitHostPort(ip); err == nil {
				ip = host
			}

			allowed, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				errs.Handle(w, r, pkgerrors.NewInternalError("rate limiter failed").WithCause(err))
				return
			}
			if !allowed {
				errs.Handle(w, r, pkgerrors.NewRateLimited("too many requests").WithRetryAfter(time.Minute))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
