// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries a per-request id the server can log alongside ours
const RequestIDHeader = "X-Request-ID"

// RoundTripperFunc adapts a function to http.RoundTripper
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Chain wraps base with the given middleware; the first one runs outermost.
func Chain(base http.RoundTripper, mws ...func(http.RoundTripper) http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

// WithRequestID tags every outgoing request with a fresh X-Request-ID
func WithRequestID(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get(RequestIDHeader) == "" {
			r = r.Clone(r.Context())
			r.Header.Set(RequestIDHeader, uuid.NewString())
		}
		return next.RoundTrip(r)
	})
}

// WithLogging wraps a transport with request logging
func WithLogging(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		start := time.Now()

		// Log request
		slog.Debug("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Header.Get(RequestIDHeader),
		)

		resp, err := next.RoundTrip(r)

		// Log completion
		duration := time.Since(start)
		if err != nil {
			slog.Warn("request failed",
				"method", r.Method,
				"path", r.URL.Path,
				"duration_ms", duration.Milliseconds(),
				"error", err,
			)
			return nil, err
		}
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", resp.StatusCode,
			"duration_ms", duration.Milliseconds(),
		)
		return resp, nil
	})
}

// WithRateLimit blocks each request until the limiter admits it.
// A nil limiter disables limiting.
func WithRateLimit(limiter *rate.Limiter) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		if limiter == nil {
			return next
		}
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if err := limiter.Wait(r.Context()); err != nil {
				return nil, err
			}
			return next.RoundTrip(r)
		})
	}
}

// NewLimiter returns a limiter for rps requests per second, or nil for rps <= 0
func NewLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// ParseJSONBody decodes a response body into v and closes it
func ParseJSONBody(body io.ReadCloser, v interface{}) error {
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return err
	}
	return nil
}
