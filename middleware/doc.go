// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides http.RoundTripper middleware for the API client.

# Transport Chain

Chain composes middleware around a base transport, outermost first:

	transport := middleware.Chain(http.DefaultTransport,
		middleware.WithRequestID,
		middleware.WithLogging,
		middleware.WithRateLimit(middleware.NewLimiter(cfg.RequestsPerSecond)),
	)

# Request IDs

WithRequestID sets an X-Request-ID header (a random UUID) unless the caller
already set one.

# Logging

WithLogging logs every request via slog:

	request started   method=GET path=/api/prompt/today request_id=...
	request completed method=GET path=/api/prompt/today status=200 duration_ms=42

Transport failures are logged at WARN.

# Rate Limiting

WithRateLimit waits on a golang.org/x/time/rate limiter before each request.
NewLimiter returns nil for a non-positive rate, which disables limiting.

# Helpers

ParseJSONBody decodes and closes a response body.
*/
package middleware
