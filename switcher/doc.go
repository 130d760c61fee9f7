// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package switcher implements the table switcher dropdown.

The widget is a two-state machine, closed and open:

	closed --Toggle--> open
	open   --Toggle / Close / Select--> closed

The first time it opens it fetches GET /api/table/list. Selecting the
current table just closes the menu. Selecting another table sends
POST /api/table/switch {table_id} and returns Outcome{Reload: true}; the
caller must then reload the whole page, never patch it.

Render is a pure projection of a Snapshot.
*/
package switcher
