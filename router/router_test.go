// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/kitchen-table/controllers"
	"github.com/danielhkuo/kitchen-table/testutil"
)

func newTestRouter(t *testing.T) (*Router, *testutil.FakeAPI) {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	deps := controllers.Deps{
		API:          api.Client(),
		PollInterval: time.Hour,
	}
	return NewRouter(deps), api
}

func TestResolve(t *testing.T) {
	r, _ := newTestRouter(t)

	testCases := []struct {
		path string
		want interface{}
	}{
		{"/", &controllers.Home{}},
		{"/login", &controllers.Form{}},
		{"/signup", &controllers.Form{}},
		{"/forgot-password", &controllers.Form{}},
		{"/reset-password/abc123", &controllers.Form{}},
		{"/create-table", &controllers.Form{}},
		{"/join-table", &controllers.Form{}},
		{"/table", &controllers.Today{}},
		{"/table/yesterday", &controllers.History{}},
		{"/table/history/2025-10-14", &controllers.History{}},
		{"/table/settings", &controllers.Settings{}},
		{"/table?tab=today", &controllers.Today{}},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			c, err := r.Resolve(tc.path)
			require.NoError(t, err)
			assert.IsType(t, tc.want, c)
		})
	}
}

func TestResolve_NotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/nope", "/table/", "/table/history", "/reset-password/", "/table/history/a/b"} {
		_, err := r.Resolve(path)
		assert.True(t, errors.Is(err, ErrNotFound), "path %q", path)
	}
}

func TestResolve_PassesPathVariables(t *testing.T) {
	r, api := newTestRouter(t)

	c, err := r.Resolve("/table/history/not-a-date")
	require.NoError(t, err)
	err = c.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not-a-date")
	assert.Empty(t, api.Calls())

	c, err = r.Resolve("/reset-password/" + testutil.ResetToken)
	require.NoError(t, err)
	form, ok := c.(controllers.Interactive)
	require.True(t, ok)
	form.SetField("password", "password1")
	form.SetField("confirm_password", "password1")
	res, err := form.Do(context.Background(), "submit")
	require.NoError(t, err)
	assert.Equal(t, controllers.RouteLogin, res.Redirect)

	calls := api.CallsTo("POST", "/api/auth/reset-password")
	require.Len(t, calls, 1)
	assert.Equal(t, testutil.ResetToken, calls[0].Body["token"])
}

func TestResolve_FreshControllerEachTime(t *testing.T) {
	r, _ := newTestRouter(t)

	a, err := r.Resolve("/table/settings")
	require.NoError(t, err)
	b, err := r.Resolve("/table/settings")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

func TestURL(t *testing.T) {
	r, _ := newTestRouter(t)

	u, err := r.URL("history", "date", "2025-10-16")
	require.NoError(t, err)
	assert.Equal(t, "/table/history/2025-10-16", u)

	u, err = r.URL("settings")
	require.NoError(t, err)
	assert.Equal(t, controllers.RouteSettings, u)

	_, err = r.URL("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNames(t *testing.T) {
	r, _ := newTestRouter(t)

	names := r.Names()
	assert.Len(t, names, 11)
	for _, name := range names {
		_, err := r.URL(name, "token", "x", "date", "2025-10-16")
		assert.NoError(t, err, "route %s", name)
	}
}
