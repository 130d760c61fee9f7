// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package controllers contains one controller per Kitchen Table page.

# Controller Types

Every controller satisfies Controller (Load, Render, Teardown); all but Home
also satisfy Interactive (fields, actions, Do):

  - Home: "/" redirects to /table or /login
  - Form: login, signup, forgot/reset password, create and join table
  - Today: /table, the composer or the day's responses with polling
  - History: /table/yesterday and /table/history/{date}
  - Settings: /table/settings, profile, owner settings, leave and delete

Controllers are created with shared Deps:

	deps := controllers.Deps{API: client, Viewer: jar, PollInterval: 30 * time.Second}
	today := controllers.NewToday(deps)

# Load and Render

Load fetches everything the page shows. Table pages fetch table info for the
header concurrently with their payload; a header failure is only logged.
Render projects the latest successful fetch through package views and never
performs I/O. A 401 on load returns *Redirect to /login; "Not in a table"
returns *Redirect to /create-table.

# Actions

Do runs a named action. After any mutation the controller reloads itself
(submit, edit, settings) or returns a Result asking the caller to navigate
or reload the whole page (switch, leave, delete, logout).

Errors come in two tiers:

  - *ValidationError: caught before any network call and shown inline
  - *apiclient.APIError: shown in a banner; the action can be retried

Background failures (polling, header, logout) are logged only.
*/
package controllers
