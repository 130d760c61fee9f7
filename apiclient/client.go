// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/danielhkuo/kitchen-table/middleware"
	"github.com/danielhkuo/kitchen-table/models"
)

// FallbackMessage is used when an error response carries no message
const FallbackMessage = "An error occurred"

// APIError is a non-success response from the server
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsStatus reports whether err is an APIError with the given status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Options for a single call. Body is JSON-encoded when non-nil.
type Options struct {
	Method string
	Body   interface{}
	Header http.Header
}

// Client calls the Kitchen Table API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for baseURL. httpClient must carry the session jar so
// credentials are included on every call.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Call performs one request against endpoint and decodes the JSON result into
// out (which may be nil). There are no retries; the first failure is returned.
func (c *Client) Call(ctx context.Context, endpoint string, opts Options, out interface{}) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// caller headers replace the defaults rather than adding to them
	for k, vs := range opts.Header {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp models.ErrorResponse
		msg := FallbackMessage
		if err := middleware.ParseJSONBody(resp.Body, &errResp); err == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		resp.Body.Close()
		return nil
	}
	if err := middleware.ParseJSONBody(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, endpoint, err)
	}
	return nil
}
