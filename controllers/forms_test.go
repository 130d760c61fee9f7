// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/kitchen-table/apiclient"
	"github.com/danielhkuo/kitchen-table/auth"
	"github.com/danielhkuo/kitchen-table/models"
	"github.com/danielhkuo/kitchen-table/testutil"
)

func TestLogin_Success(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	f := NewLogin(newDeps(t, api))
	require.NoError(t, f.Load(context.Background()))

	f.SetField(fieldUsername, " alice ")
	f.SetField(fieldPassword, testutil.ViewerPassword)
	res, err := f.Do(context.Background(), "submit")
	require.NoError(t, err)
	assert.Equal(t, RouteToday, res.Redirect)

	calls := api.CallsTo("POST", "/api/auth/login")
	require.Len(t, calls, 1)
	assert.Equal(t, "alice", calls[0].Body["username"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	f := NewLogin(newDeps(t, api))

	f.SetField(fieldUsername, "alice")
	f.SetField(fieldPassword, "nope")
	_, err := f.Do(context.Background(), "submit")
	require.Error(t, err)

	out := f.Render()
	assert.Contains(t, out, "Invalid credentials")
	assert.NotContains(t, out, "Log in...", "the submit control is re-enabled")
}

func TestLogin_EmptyFields(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	f := NewLogin(newDeps(t, api))

	f.SetField(fieldUsername, "alice")
	_, err := f.Do(context.Background(), "submit")
	requireValidation(t, err, "Please fill in all fields")
	assert.Empty(t, api.Calls())
	assert.Contains(t, f.Render(), "Please fill in all fields")
}

func TestLogin_AttemptLimiter(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	deps := newDeps(t, api)
	deps.LoginLimiter = auth.NewAttemptLimiter(1)
	f := NewLogin(deps)

	f.SetField(fieldUsername, "alice")
	f.SetField(fieldPassword, "nope")
	_, err := f.Do(context.Background(), "submit")
	require.Error(t, err)

	_, err = f.Do(context.Background(), "submit")
	requireValidation(t, err, auth.ErrTooManyAttempts.Error())
	assert.Len(t, api.CallsTo("POST", "/api/auth/login"), 1)
}

func TestLogin_Links(t *testing.T) {
	f := NewLogin(newDeps(t, testutil.NewFakeAPI(t)))

	res, err := f.Do(context.Background(), "link:"+RouteSignup)
	require.NoError(t, err)
	assert.Equal(t, RouteSignup, res.Redirect)
	assert.True(t, hasAction(f.Actions(), "link:"+RouteForgot))
}

func TestSignup(t *testing.T) {
	testCases := []struct {
		name    string
		values  map[string]string
		message string
	}{
		{
			name:    "BadUsername",
			values:  map[string]string{fieldUsername: "a!", fieldEmail: "a@example.com", fieldPassword: "password1", fieldConfirm: "password1"},
			message: auth.ErrInvalidUsername.Error(),
		},
		{
			name:    "BadEmail",
			values:  map[string]string{fieldUsername: "alice", fieldEmail: "nope", fieldPassword: "password1", fieldConfirm: "password1"},
			message: auth.ErrInvalidEmail.Error(),
		},
		{
			name:    "ShortPassword",
			values:  map[string]string{fieldUsername: "alice", fieldEmail: "a@example.com", fieldPassword: "short", fieldConfirm: "short"},
			message: auth.ErrPasswordTooShort.Error(),
		},
		{
			name:    "Mismatch",
			values:  map[string]string{fieldUsername: "alice", fieldEmail: "a@example.com", fieldPassword: "password1", fieldConfirm: "password2"},
			message: auth.ErrPasswordMismatch.Error(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api := testutil.NewFakeAPI(t)
			f := NewSignup(newDeps(t, api))
			for k, v := range tc.values {
				f.SetField(k, v)
			}
			_, err := f.Do(context.Background(), "submit")
			requireValidation(t, err, tc.message)
			assert.Empty(t, api.Calls())
			assert.Contains(t, f.Render(), tc.message)
		})
	}
}

func TestSignup_Success(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	f := NewSignup(newDeps(t, api))
	f.SetField(fieldUsername, "alice")
	f.SetField(fieldEmail, "alice@example.com")
	f.SetField(fieldPassword, "password1")
	f.SetField(fieldConfirm, "password1")

	res, err := f.Do(context.Background(), "submit")
	require.NoError(t, err)
	assert.Equal(t, RouteCreateTable, res.Redirect)

	calls := api.CallsTo("POST", "/api/auth/signup")
	require.Len(t, calls, 1)
	assert.NotContains(t, calls[0].Body, fieldConfirm, "the confirmation never leaves the client")
}

func TestForgotPassword_ShowsResetLink(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	f := NewForgotPassword(newDeps(t, api))
	assert.False(t, hasAction(f.Actions(), "open-reset"))

	f.SetField(fieldEmail, "alice@example.com")
	res, err := f.Do(context.Background(), "submit")
	require.NoError(t, err)
	assert.Empty(t, res.Redirect, "the form stays open")

	out := f.Render()
	assert.Contains(t, out, "a reset link has been sent")
	assert.Contains(t, out, RouteReset+testutil.ResetToken)
	assert.Empty(t, f.Fields()[0].Value, "inputs are cleared")

	require.True(t, hasAction(f.Actions(), "open-reset"))
	res, err = f.Do(context.Background(), "open-reset")
	require.NoError(t, err)
	assert.Equal(t, RouteReset+testutil.ResetToken, res.Redirect)
}

func TestResetPassword(t *testing.T) {
	t.Run("BadToken", func(t *testing.T) {
		api := testutil.NewFakeAPI(t)
		f := NewResetPassword(newDeps(t, api), "expired")
		f.SetField(fieldPassword, "password1")
		f.SetField(fieldConfirm, "password1")

		_, err := f.Do(context.Background(), "submit")
		require.Error(t, err)
		assert.True(t, apiclient.IsStatus(err, http.StatusBadRequest))
		assert.Contains(t, f.Render(), "Invalid or expired reset token")
	})

	t.Run("Success", func(t *testing.T) {
		api := testutil.NewFakeAPI(t)
		f := NewResetPassword(newDeps(t, api), testutil.ResetToken)
		f.SetField(fieldPassword, "password1")
		f.SetField(fieldConfirm, "password1")

		res, err := f.Do(context.Background(), "submit")
		require.NoError(t, err)
		assert.Equal(t, RouteLogin, res.Redirect)

		calls := api.CallsTo("POST", "/api/auth/reset-password")
		require.Len(t, calls, 1)
		assert.Equal(t, testutil.ResetToken, calls[0].Body["token"])
	})
}

func TestCreateTable(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	f := NewCreateTable(newDeps(t, api))
	assert.Equal(t, models.DefaultPromptTime, f.Fields()[1].Value)

	f.SetField(fieldTableName, "ab")
	_, err := f.Do(context.Background(), "submit")
	requireValidation(t, err, "Table name must be 3-50 characters")
	assert.Empty(t, api.Calls())

	f.SetField(fieldTableName, "The Smiths")
	res, err := f.Do(context.Background(), "submit")
	require.NoError(t, err)
	assert.Equal(t, RouteToday, res.Redirect)

	calls := api.CallsTo("POST", "/api/table/create")
	require.Len(t, calls, 1)
	assert.Equal(t, "The Smiths", calls[0].Body["name"])
	assert.Equal(t, "17:00", calls[0].Body["prompt_time"])
}

func TestJoinTable_NormalizesInviteCode(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	f := NewJoinTable(newDeps(t, api))

	f.SetField(fieldInviteCode, "abcd efgh")
	assert.Equal(t, "ABCD-EFGH", f.Fields()[0].Value)

	res, err := f.Do(context.Background(), "submit")
	require.NoError(t, err)
	assert.Equal(t, RouteToday, res.Redirect)

	calls := api.CallsTo("POST", "/api/table/join")
	require.Len(t, calls, 1)
	assert.Equal(t, "ABCD-EFGH", calls[0].Body["invite_code"])
}

func TestJoinTable_Empty(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	f := NewJoinTable(newDeps(t, api))

	f.SetField(fieldInviteCode, "--")
	_, err := f.Do(context.Background(), "submit")
	requireValidation(t, err, "Please enter an invite code")
	assert.Empty(t, api.Calls())
}

func TestHome_Redirects(t *testing.T) {
	api := testutil.NewFakeAPI(t)

	deps := newDeps(t, api)
	to, ok := RedirectTarget(NewHome(deps).Load(context.Background()))
	require.True(t, ok)
	assert.Equal(t, RouteToday, to)

	deps.Viewer = &stubViewer{}
	to, ok = RedirectTarget(NewHome(deps).Load(context.Background()))
	require.True(t, ok)
	assert.Equal(t, RouteLogin, to)
	assert.Empty(t, api.Calls())
}

func TestLogout(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		api := testutil.NewFakeAPI(t)
		deps := newDeps(t, api)

		res := Logout(context.Background(), deps)
		assert.Equal(t, RouteHome, res.Redirect)
		assert.Len(t, api.CallsTo("POST", "/api/auth/logout"), 1)
		assert.Equal(t, 1, deps.Viewer.(*stubViewer).cleared)
	})

	t.Run("FailureStillNavigates", func(t *testing.T) {
		api := testutil.NewFakeAPI(t)
		api.FailWith("POST", "/api/auth/logout", http.StatusInternalServerError, "boom")
		deps := newDeps(t, api)

		res := Logout(context.Background(), deps)
		assert.Equal(t, RouteHome, res.Redirect)
		assert.Equal(t, 1, deps.Viewer.(*stubViewer).cleared)
	})
}
