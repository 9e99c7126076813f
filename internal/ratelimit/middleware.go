package ratelimit

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"

	dErrors "creditline/pkg/domain-errors"
	"creditline/pkg/platform/httputil"
)

// Middleware runs the checker before the wrapped handler. The limit key is the
// customerId header when present, the client address otherwise. Checker
// failures fail open: a broken limiter must not take the decision endpoint
// down with it.
type Middleware struct {
	checker  Checker
	logger   *slog.Logger
	disabled bool
}

type MiddlewareOption func(*Middleware)

// WithDisabled turns the middleware into a pass-through, for tests and demo
// mode.
func WithDisabled(disabled bool) MiddlewareOption {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func NewMiddleware(checker Checker, logger *slog.Logger, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		checker: checker,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// Handler is the http middleware.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled {
			next.ServeHTTP(w, r)
			return
		}

		key := limitKey(r)
		result, err := m.checker.Allow(r.Context(), key)
		if err != nil {
			m.logger.ErrorContext(r.Context(), "rate limit check failed, allowing request",
				"error", err,
			)
			next.ServeHTTP(w, r)
			return
		}

		if !result.Allowed {
			if result.RetryAfter > 0 {
				seconds := int(math.Ceil(result.RetryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
			}
			httputil.WriteError(w, r, dErrors.New(dErrors.CodeTooManyRequests,
				"request quota exceeded, please retry later"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func limitKey(r *http.Request) string {
	if customerID := r.Header.Get("customerId"); customerID != "" {
		return "customer:" + customerID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}
