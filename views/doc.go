// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package views turns page payloads and view state into styled terminal text.

Every function here is pure: the same input always renders the same string,
and nothing performs I/O. Controllers build a view struct and call the
matching renderer:

	views.ResponseList(views.ResponseListView{
		Responses: payload.Prompt.Responses,
		ViewerID:  viewerID,
		Editable:  payload.Prompt.IsEditable,
		Now:       now,
		EmptyIcon: "☕",
		EmptyText: views.EmptyToday,
	})

# Formatting

	FormatPromptTime("17:00")  → "5:00 PM"
	FormatCountdown(3600)      → "1h 0m"
	FormatTimeAgo(t, now)      → "Just now", "5m ago", "3h ago", "2d ago"
	FormatDate("2025-10-17")   → "Friday, October 17"
	CharCount(460)             → "460 / 500", CounterWarning

# Escaping

Server-provided text passes through Sanitize, which drops terminal escape
sequences and control characters.
*/
package views
