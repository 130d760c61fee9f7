// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles the local session store connection and schema.

# Opening

Open selects the driver, pings, and creates the schema:

	conn, err := db.Open("sqlite", "/home/me/.kitchentable/session.db")
	conn, err := db.Open("postgres", "postgres://...")

SQLite uses modernc.org/sqlite (pure Go); PostgreSQL uses lib/pq. The parent
directory of a SQLite file is created if needed.

# Schema Creation

CreateSchema is safe to call multiple times - uses IF NOT EXISTS for all
tables and indexes.

# Tables

  - session_cookie: cookies set by the server (host, name, value, path,
    flags, expiry). The auth_token cookie is what keeps a user logged in
    between runs.

Only credentials are stored. Prompts, responses and tables are never cached
locally; every page is fetched fresh.
*/
package db
