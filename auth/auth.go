// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"
)

// SessionCookie is the cookie the server sets on login and signup.
const SessionCookie = "auth_token"

// Login attempts allowed per minute, matching the server's limit.
const LoginAttemptsPerMinute = 5

var (
	ErrInvalidUsername  = errors.New("Username must be 3-20 characters and contain only letters, numbers, and underscores")
	ErrInvalidEmail     = errors.New("Invalid email address")
	ErrPasswordTooShort = errors.New("Password must be at least 8 characters long")
	ErrPasswordMismatch = errors.New("Passwords do not match")
	ErrInvalidToken     = errors.New("invalid session token")
	ErrTooManyAttempts  = errors.New("Too many attempts, please wait a minute and try again")
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidateUsername checks the 3-20 character [A-Za-z0-9_] rule
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// ValidateEmail performs the same basic shape check as the server
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword requires at least 8 characters
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}

// ConfirmPassword checks a password against its confirmation field
func ConfirmPassword(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// FormatInviteCode normalizes user input into the XXXX-XXXX invite format.
// Lowercase letters are upcased and anything that is not A-Z or 0-9 is dropped.
func FormatInviteCode(input string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(input) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	code := b.String()
	if len(code) > 8 {
		code = code[:8]
	}
	if len(code) > 4 {
		code = code[:4] + "-" + code[4:]
	}
	return code
}

// SessionClaims are the claims the server puts in the auth_token JWT
type SessionClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// ParseSessionToken reads the claims of a session token without verifying
// its signature. The client never holds the signing key; the server remains
// the authority on validity.
func ParseSessionToken(token string) (SessionClaims, error) {
	var claims SessionClaims
	if token == "" {
		return claims, ErrInvalidToken
	}
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil {
		return SessionClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == 0 {
		return SessionClaims{}, ErrInvalidToken
	}
	return claims, nil
}

// Expired reports whether the token's exp claim is before now
func (c SessionClaims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

// AttemptLimiter throttles repeated login submissions on the client
type AttemptLimiter struct {
	limiter *rate.Limiter
}

func NewAttemptLimiter(perMinute int) *AttemptLimiter {
	return &AttemptLimiter{
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
}

// Allow consumes one attempt or returns ErrTooManyAttempts
func (l *AttemptLimiter) Allow() error {
	if !l.limiter.Allow() {
		return ErrTooManyAttempts
	}
	return nil
}
