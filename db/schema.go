// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the session store and makes sure the schema exists.
// dbType is "sqlite" (DatabaseURL is a file path or file: URI) or "postgres".
func Open(dbType, databaseURL string) (*sql.DB, error) {
	driver := "sqlite"
	switch dbType {
	case "sqlite":
		if err := ensureDir(databaseURL); err != nil {
			return nil, err
		}
	case "postgres":
		driver = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	if driver == "sqlite" {
		// a single connection keeps :memory: databases and file locks simple
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to reach session store: %w", err)
	}
	if err := CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the session store.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func ensureDir(databaseURL string) error {
	if databaseURL == ":memory:" || strings.HasPrefix(databaseURL, "file:") {
		return nil
	}
	dir := filepath.Dir(databaseURL)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	return nil
}

// Works on both sqlite and postgres: no dialect-specific defaults.
const schema = `
-- Cookies set by the Kitchen Table server, keyed by host
CREATE TABLE IF NOT EXISTS session_cookie (
    host TEXT NOT NULL,
    name TEXT NOT NULL,
    value TEXT NOT NULL,
    path TEXT NOT NULL DEFAULT '/',
    secure BOOLEAN NOT NULL DEFAULT FALSE,
    http_only BOOLEAN NOT NULL DEFAULT FALSE,
    expires_at TIMESTAMP,
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (host, name)
);

CREATE INDEX IF NOT EXISTS idx_session_cookie_host ON session_cookie(host);
`
