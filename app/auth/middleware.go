package auth

import (
	"net/http"

	"github.com/ankproject/ank-api/internal/ip"
	"github.com/ankproject/ank-api/internal/metrics"
	"github.com/ankproject/ank-api/internal/responses"
	"github.com/ankproject/ank-api/pkg/iprate"
	"github.com/ankproject/ank-api/pkg/logging"

	"github.com/go-chi/jwtauth/v5"
)

const (
	InvalidTokenMessage    = "invalid authentication token"
	TooManyAttemptsMessage = "too many failed authentication attempts"
	retryAfterSeconds      = "60"
)

// Middleware authenticates requests by their bearer token and rejects the ones that fail.
// Addresses that have exhausted their failed attempt budget in limiter are turned away
// before the token is looked at. limiter may be nil.
func Middleware(auther Authenticator, limiter *iprate.Limiter, kvLogger logging.KVLogger) func(http.Handler) http.Handler {
	if kvLogger == nil {
		kvLogger = logging.NoopKVLogger{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr := ip.FromRequest(r)
			log := kvLogger.With("ip", addr)

			if limiter != nil && limiter.Exhausted(addr) {
				metrics.AuthFailures.WithLabelValues(metrics.AuthFailureLimited).Inc()
				log.Info("authentication attempts exhausted")
				w.Header().Set("Retry-After", retryAfterSeconds)
				responses.Detail(w, http.StatusTooManyRequests, TooManyAttemptsMessage)
				return
			}

			token := jwtauth.TokenFromHeader(r)
			if token == "" {
				metrics.AuthFailures.WithLabelValues(metrics.AuthFailureMissing).Inc()
				log.Debug("authentication rejected", "err", ErrNoAuthInfo)
				responses.Detail(w, http.StatusUnauthorized, responses.AuthRequiredErrorMessage)
				return
			}

			identity, err := auther.Authenticate(r.Context(), token)
			if err != nil || identity == nil {
				if limiter != nil {
					limiter.Allow(addr)
				}
				metrics.AuthFailures.WithLabelValues(metrics.AuthFailureInvalid).Inc()
				log.Info("authentication failed", "err", err)
				responses.Detail(w, http.StatusUnauthorized, InvalidTokenMessage)
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			ctx = logging.AddToContext(ctx, logging.TracedLogger(log, identity))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
