// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Kitchen Table terminal client.

Kitchen Table asks a small group one question a day. Each member answers
once, and the answers of everyone else stay hidden until they do.

# Starting the Client

The client needs the URL of a Kitchen Table server:

	KITCHEN_TABLE_URL=https://kitchen.example.com go run .

Or with flags:

	go run . -s https://kitchen.example.com -r /table

Print a single page without the interactive UI:

	go run . -once -r /table/yesterday

# Configuration

Settings come from flags, then the environment (a .env file is loaded
first), then an optional YAML file (-c or KITCHEN_TABLE_CONFIG):

  - KITCHEN_TABLE_URL (-s): Server URL (default: http://localhost:5000)
  - DATABASE_TYPE (-t): Session store, sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Session store location (default: ~/.kitchentable/session.db)
  - POLL_INTERVAL (-poll): New response check interval (default: 30s)
  - REQUESTS_PER_SECOND (-rps): Client-side request limit (default: none)
  - LOG_LEVEL (-log-level), LOG_FILE (-log-file): Logging (default: INFO to kitchen_table.log)

# Architecture

  - tui: Bubble Tea program, keys and widgets
  - router: Page paths to controllers using gorilla/mux
  - controllers: One controller per page (load, render, actions)
  - views: Pure lipgloss renderers
  - poller: New response polling on the today page
  - switcher: Table dropdown
  - apiclient: The single HTTP entry point and typed endpoints
  - middleware: Request ID, logging and rate limiting round trippers
  - session: Cookie jar persisted in the session store
  - db: Session store schema
  - auth: Credential rules, invite codes, session token claims
  - models: Request/response types
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
