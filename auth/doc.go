// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides client-side credential checks and session token
inspection.

# Form Validation

The same rules the server enforces, checked before any request is sent:

	err := auth.ValidateUsername(username)     // 3-20 chars, [A-Za-z0-9_]
	err := auth.ValidateEmail(email)
	err := auth.ValidatePassword(password)     // at least 8 characters
	err := auth.ConfirmPassword(pw, confirm)   // "Passwords do not match"

The error messages are shown to the user as-is.

# Invite Codes

Invite codes are typed loosely and normalized as the user types:

	auth.FormatInviteCode("abcd efgh") // "ABCD-EFGH"

# Session Tokens

The server keeps the session in an auth_token cookie holding a JWT with a
user_id claim. The client reads the claims without verifying the signature to
learn who the viewer is and when the session expires:

	claims, err := auth.ParseSessionToken(token)
	if err == nil && !claims.Expired(time.Now()) {
		viewerID := claims.UserID
	}

# Login Throttling

AttemptLimiter mirrors the server's 5 logins per minute so the user gets an
immediate message instead of a rejected request:

	limiter := auth.NewAttemptLimiter(auth.LoginAttemptsPerMinute)
	if err := limiter.Allow(); err != nil {
		// show err
	}
*/
package auth
