// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router maps Kitchen Table page paths to their controllers.

# Route Registration

NewRouter registers every page on a gorilla/mux router:

	r := router.NewRouter(deps)
	c, err := r.Resolve("/table/history/2025-10-14")

# Pages

Account:

	/                       - Redirect to /table or /login
	/login                  - Log in
	/signup                 - Create an account
	/forgot-password        - Request a reset link
	/reset-password/{token} - Choose a new password

Tables:

	/create-table - Create a table
	/join-table   - Join with an invite code

Table pages (require a session and a current table):

	/table                 - Today's prompt
	/table/yesterday       - Yesterday's prompt
	/table/history/{date}  - A past day (YYYY-MM-DD)
	/table/settings        - Profile and table settings

# Resolution

Resolve returns a new, unloaded controller on every call. Path variables
are handed to the controller as-is; validating them (for example the
history date) is the controller's job. Unknown paths return ErrNotFound.
*/
package router
