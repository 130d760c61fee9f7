// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session keeps the client's credentials between runs.

A browser includes the session cookie on every request and remembers it
across page loads. Jar does the same for the terminal client: it is an
http.CookieJar backed by the session_cookie table (see package db), so the
auth_token cookie set by login or signup is sent with every API call and
restored the next time the client starts.

	conn, _ := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	jar, err := session.NewJar(conn, cfg.ServerURL)
	client := &http.Client{Jar: jar}

The viewer's identity comes from the token claims:

	if jar.HasSession() {
		viewerID := jar.ViewerID()
	}

Clear removes every stored cookie for the server (used on logout and
account deletion).
*/
package session
