// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package apiclient is the single entry point for talking to the Kitchen Table
API. No other package performs HTTP calls.

# Calls

Call sends one JSON request and decodes the JSON result:

	var info models.TableInfo
	err := client.Call(ctx, "/api/table/info", apiclient.Options{}, &info)

Content-Type defaults to application/json. Credentials come from the
http.Client's cookie jar (see package session), so they are included on
every call.

# Errors

A non-2xx response becomes an *APIError whose Message is the server's
"error" field, or "An error occurred" when the body has none:

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		// apiErr.Status, apiErr.Message
	}

Transport failures are returned unchanged. There are no retries, timeouts
or backoff: a failed call surfaces to the caller immediately.

# Endpoints

Typed wrappers exist for every endpoint the client uses:

	POST /api/auth/{signup,login,forgot-password,reset-password,logout}
	POST /api/table/{create,join,leave,switch}
	GET  /api/table/{info,list}
	PUT  /api/table/settings
	POST /api/user/delete
	PUT  /api/user/profile
	GET  /api/prompt/{today,yesterday}
	GET  /api/prompt/date/{date}
	POST /api/response/submit
	PUT  /api/response/edit
	GET  /api/response/poll
*/
package apiclient
