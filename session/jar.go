// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/danielhkuo/kitchen-table/auth"
)

// Jar is an http.CookieJar that mirrors every cookie the server sets into the
// session store, so a login survives restarts of the client.
type Jar struct {
	mu    sync.Mutex
	inner *cookiejar.Jar
	db    *sql.DB
	base  *url.URL
	now   func() time.Time
}

// NewJar loads the stored cookies for baseURL's host.
func NewJar(db *sql.DB, baseURL string) (*Jar, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	j := &Jar{inner: inner, db: db, base: base, now: time.Now}
	if err := j.load(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *Jar) load() error {
	rows, err := j.db.Query(`
		SELECT name, value, path, secure, http_only, expires_at
		FROM session_cookie
		WHERE host = $1
	`, j.base.Host)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	defer rows.Close()

	now := j.now()
	var cookies []*http.Cookie
	for rows.Next() {
		var c http.Cookie
		var expires sql.NullTime
		if err := rows.Scan(&c.Name, &c.Value, &c.Path, &c.Secure, &c.HttpOnly, &expires); err != nil {
			return fmt.Errorf("failed to scan cookie: %w", err)
		}
		if expires.Valid {
			if !expires.Time.After(now) {
				continue
			}
			c.Expires = expires.Time
		}
		cookies = append(cookies, &c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	j.inner.SetCookies(j.base, cookies)
	slog.Debug("session loaded", "host", j.base.Host, "cookies", len(cookies))
	return nil
}

// SetCookies implements http.CookieJar.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.inner.SetCookies(u, cookies)

	now := j.now()
	for _, c := range cookies {
		var err error
		if c.MaxAge < 0 || (!c.Expires.IsZero() && !c.Expires.After(now)) {
			err = j.delete(u.Host, c.Name)
		} else {
			err = j.save(u.Host, c, now)
		}
		if err != nil {
			// the in-memory jar still has the cookie; only persistence failed
			slog.Error("failed to persist cookie", "name", c.Name, "error", err)
		}
	}
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

func (j *Jar) save(host string, c *http.Cookie, now time.Time) error {
	var expires sql.NullTime
	switch {
	case c.MaxAge > 0:
		expires = sql.NullTime{Time: now.Add(time.Duration(c.MaxAge) * time.Second), Valid: true}
	case !c.Expires.IsZero():
		expires = sql.NullTime{Time: c.Expires, Valid: true}
	}
	path := c.Path
	if path == "" {
		path = "/"
	}

	_, err := j.db.Exec(`
		INSERT INTO session_cookie (host, name, value, path, secure, http_only, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (host, name) DO UPDATE SET
			value = EXCLUDED.value,
			path = EXCLUDED.path,
			secure = EXCLUDED.secure,
			http_only = EXCLUDED.http_only,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
	`, host, c.Name, c.Value, path, c.Secure, c.HttpOnly, expires, now)
	return err
}

func (j *Jar) delete(host, name string) error {
	_, err := j.db.Exec(`DELETE FROM session_cookie WHERE host = $1 AND name = $2`, host, name)
	return err
}

// SessionToken returns the raw auth_token cookie value, or "" when logged out.
func (j *Jar) SessionToken() string {
	for _, c := range j.Cookies(j.base) {
		if c.Name == auth.SessionCookie {
			return c.Value
		}
	}
	return ""
}

// Viewer returns the claims of the current session token if it is present
// and not expired.
func (j *Jar) Viewer() (auth.SessionClaims, bool) {
	claims, err := auth.ParseSessionToken(j.SessionToken())
	if err != nil || claims.Expired(j.now()) {
		return auth.SessionClaims{}, false
	}
	return claims, true
}

// ViewerID returns the logged-in user's id, or 0 without a valid session.
func (j *Jar) ViewerID() int64 {
	claims, ok := j.Viewer()
	if !ok {
		return 0
	}
	return claims.UserID
}

// HasSession reports whether a non-expired session token is held.
func (j *Jar) HasSession() bool {
	_, ok := j.Viewer()
	return ok
}

// Clear forgets every cookie for the server, in memory and in the store.
func (j *Jar) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	inner, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	j.inner = inner
	if _, err := j.db.Exec(`DELETE FROM session_cookie WHERE host = $1`, j.base.Host); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
