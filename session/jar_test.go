// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"database/sql"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/kitchen-table/auth"
	"github.com/danielhkuo/kitchen-table/db"
)

const testServer = "http://127.0.0.1:5000"

func openStore(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sessionToken(t *testing.T, userID int64, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.SessionClaims{
		UserID:           userID,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestJar_PersistsAcrossInstances(t *testing.T) {
	conn := openStore(t)
	u, _ := url.Parse(testServer + "/api/auth/login")

	jar, err := NewJar(conn, testServer)
	require.NoError(t, err)
	assert.False(t, jar.HasSession())

	token := sessionToken(t, 42, time.Now().Add(24*time.Hour))
	jar.SetCookies(u, []*http.Cookie{{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   30 * 24 * 60 * 60,
	}})

	assert.Equal(t, token, jar.SessionToken())
	assert.Equal(t, int64(42), jar.ViewerID())

	// A fresh jar over the same store sees the same session
	reloaded, err := NewJar(conn, testServer)
	require.NoError(t, err)
	assert.Equal(t, token, reloaded.SessionToken())
	assert.True(t, reloaded.HasSession())
}

func TestJar_ScopedToHost(t *testing.T) {
	conn := openStore(t)
	u, _ := url.Parse(testServer + "/")

	jar, err := NewJar(conn, testServer)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{Name: auth.SessionCookie, Value: sessionToken(t, 7, time.Now().Add(time.Hour)), MaxAge: 3600}})

	other, err := NewJar(conn, "http://127.0.0.1:6000")
	require.NoError(t, err)
	assert.Empty(t, other.SessionToken())
}

func TestJar_DeletesExpiredCookies(t *testing.T) {
	conn := openStore(t)
	u, _ := url.Parse(testServer + "/")

	jar, err := NewJar(conn, testServer)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{Name: auth.SessionCookie, Value: sessionToken(t, 7, time.Now().Add(time.Hour)), MaxAge: 3600}})

	// Logout clears the cookie with a negative MaxAge
	jar.SetCookies(u, []*http.Cookie{{Name: auth.SessionCookie, Value: "", MaxAge: -1}})
	assert.Empty(t, jar.SessionToken())

	var count int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM session_cookie`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestJar_ExpiredTokenIsNoSession(t *testing.T) {
	conn := openStore(t)
	u, _ := url.Parse(testServer + "/")

	jar, err := NewJar(conn, testServer)
	require.NoError(t, err)

	// cookie still alive but the JWT inside already expired
	jar.SetCookies(u, []*http.Cookie{{Name: auth.SessionCookie, Value: sessionToken(t, 7, time.Now().Add(-time.Minute)), MaxAge: 3600}})
	assert.NotEmpty(t, jar.SessionToken())
	assert.False(t, jar.HasSession())
	assert.Equal(t, int64(0), jar.ViewerID())
}

func TestJar_Clear(t *testing.T) {
	conn := openStore(t)
	u, _ := url.Parse(testServer + "/")

	jar, err := NewJar(conn, testServer)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{Name: auth.SessionCookie, Value: sessionToken(t, 7, time.Now().Add(time.Hour)), MaxAge: 3600}})

	require.NoError(t, jar.Clear())
	assert.Empty(t, jar.SessionToken())

	reloaded, err := NewJar(conn, testServer)
	require.NoError(t, err)
	assert.Empty(t, reloaded.SessionToken())
}
