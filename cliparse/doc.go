// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - ServerURL: Kitchen Table server (default: http://localhost:5000)
  - DatabaseURL: session store location (default: ~/.kitchentable/session.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - PollInterval: refresh interval on the today page (default: 30s)
  - RequestsPerSecond: client-side request limit (default: unlimited)
  - LogLevel, LogFile: slog settings (default: INFO, kitchen_table.log)
  - Route: start route (default: /)
  - Once: render the start route to stdout and exit

# CLI Flags

	-s          Server URL
	-d          Session store URL
	-t          Session store type
	-poll       Poll interval
	-rps        Request limit
	-log-level  Log level
	-log-file   Log file
	-r          Start route
	-once       One-shot render
	-c          YAML config file

# Environment Variables

Flags fall back to environment variables. A .env file in the working
directory is loaded first.

	KITCHEN_TABLE_URL    → -s
	DATABASE_URL         → -d
	DATABASE_TYPE        → -t
	POLL_INTERVAL        → -poll
	REQUESTS_PER_SECOND  → -rps
	LOG_LEVEL            → -log-level
	LOG_FILE             → -log-file
	KITCHEN_TABLE_CONFIG → -c

# Config File

Values not set by flags or environment come from the YAML file:

	server_url: https://kitchentable.example.com
	poll_interval: 15s
	log_level: debug

# Validation

ParseFlags returns an error if:

  - the server URL has no scheme or host
  - the database type is not sqlite or postgres
  - postgres is selected without a DATABASE_URL
  - the poll interval is not a positive duration
*/
package cliparse
