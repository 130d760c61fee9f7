// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package controllers

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/kitchen-table/testutil"
	"github.com/danielhkuo/kitchen-table/views"
)

func loadToday(t *testing.T, api *testutil.FakeAPI) *Today {
	t.Helper()
	c := NewToday(newDeps(t, api))
	t.Cleanup(c.Teardown)
	require.NoError(t, c.Load(context.Background()))
	return c
}

func TestToday_UnansweredShowsComposer(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := loadToday(t, api)

	out := c.Render()
	assert.Contains(t, out, "TODAY")
	assert.Contains(t, out, "What made you smile today?")
	assert.Contains(t, out, "0 / 500")
	assert.Contains(t, out, views.SubmitLabel)
	assert.NotContains(t, out, "The sunrise", "responses stay hidden until the viewer answers")
	assert.Equal(t, []string{fieldResponse}, fieldNames(c.Fields()))
	assert.False(t, c.Polling())
}

func TestToday_HeaderLoadedIndependently(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := loadToday(t, api)

	assert.Contains(t, c.Render(), "The Smiths")
	assert.Len(t, api.CallsTo("GET", "/api/table/info"), 1)
	assert.Len(t, api.CallsTo("GET", "/api/prompt/today"), 1)
}

func TestToday_HeaderFailureIsLoggedOnly(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.FailWith("GET", "/api/table/info", http.StatusInternalServerError, "boom")
	c := loadToday(t, api)

	out := c.Render()
	assert.Contains(t, out, "What made you smile today?")
	assert.NotContains(t, out, "boom")
}

func TestToday_EmptySubmitIsValidatedLocally(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t "} {
		api := testutil.NewFakeAPI(t)
		c := loadToday(t, api)

		c.SetField(fieldResponse, text)
		_, err := c.Do(context.Background(), "submit")
		requireValidation(t, err, "Please enter a response")

		assert.Empty(t, api.CallsTo("POST", "/api/response/submit"), "no network call for %q", text)
		assert.Contains(t, c.Render(), "Please enter a response")
	}
}

func TestToday_TooLongIsValidatedLocally(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := loadToday(t, api)

	c.SetField(fieldResponse, strings.Repeat("a", 501))
	_, err := c.Do(context.Background(), "submit")
	requireValidation(t, err, msgLongResponse)
	assert.Empty(t, api.CallsTo("POST", "/api/response/submit"))
}

func TestToday_CounterLevels(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := loadToday(t, api)

	c.SetField(fieldResponse, strings.Repeat("☕", 460))
	assert.Contains(t, c.Render(), "460 / 500")
}

func TestToday_SubmitShowsResponseList(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := loadToday(t, api)

	c.SetField(fieldResponse, "  Coffee with a friend  ")
	res, err := c.Do(context.Background(), "submit")
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	calls := api.CallsTo("POST", "/api/response/submit")
	require.Len(t, calls, 1)
	assert.Equal(t, "Coffee with a friend", calls[0].Body["response"])

	assert.True(t, c.Answered())
	out := c.Render()
	assert.Contains(t, out, "You")
	assert.Contains(t, out, "Coffee with a friend")
	assert.Contains(t, out, "Bob")
	assert.NotContains(t, out, "Alice", "the viewer's entry is labeled You")
	assert.NotContains(t, out, "0 / 500")
	assert.Empty(t, c.Fields())
	assert.True(t, c.Polling(), "entering the answered state starts polling")
}

func TestToday_SubmitServerErrorReenables(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.FailWith("POST", "/api/response/submit", http.StatusBadRequest, "You have already responded today")
	c := loadToday(t, api)

	c.SetField(fieldResponse, "hello")
	_, err := c.Do(context.Background(), "submit")
	require.Error(t, err)

	out := c.Render()
	assert.Contains(t, out, "You have already responded today")
	assert.Contains(t, out, views.SubmitLabel)
	assert.NotContains(t, out, views.SubmittingLabel)
	assert.True(t, hasAction(c.Actions(), "submit"))
}

func TestToday_EditCancelRestoresOriginal(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.ViewerAnswered("Fresh <b>bread</b> & jam")
	c := loadToday(t, api)
	api.ResetCalls()

	_, err := c.Do(context.Background(), "edit")
	require.NoError(t, err)
	fields := c.Fields()
	require.Len(t, fields, 1)
	assert.Equal(t, "Fresh <b>bread</b> & jam", fields[0].Value, "editor is pre-filled with the original text")

	c.SetField(fieldEdit, "something else")
	_, err = c.Do(context.Background(), "cancel-edit")
	require.NoError(t, err)

	out := c.Render()
	assert.Contains(t, out, "Fresh <b>bread</b> & jam")
	assert.NotContains(t, out, "something else")
	assert.Empty(t, c.Fields())
	assert.Empty(t, api.Calls(), "cancel makes no network call")
}

func TestToday_EditSaveIssuesOneCall(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.ViewerAnswered("Original")
	c := loadToday(t, api)

	_, err := c.Do(context.Background(), "edit")
	require.NoError(t, err)
	c.SetField(fieldEdit, "Updated answer")
	_, err = c.Do(context.Background(), "save-edit")
	require.NoError(t, err)

	calls := api.CallsTo("PUT", "/api/response/edit")
	require.Len(t, calls, 1)
	assert.Equal(t, float64(testutil.PromptID), calls[0].Body["prompt_id"])
	assert.Equal(t, "Updated answer", calls[0].Body["response"])

	out := c.Render()
	assert.Contains(t, out, "Updated answer")
	assert.Contains(t, out, "edited")
	assert.Len(t, api.CallsTo("GET", "/api/prompt/today"), 2, "save reloads the page")
}

func TestToday_EditSaveEmptyIsValidated(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.ViewerAnswered("Original")
	c := loadToday(t, api)

	_, _ = c.Do(context.Background(), "edit")
	c.SetField(fieldEdit, "  ")
	_, err := c.Do(context.Background(), "save-edit")
	requireValidation(t, err, "Please enter a response")
	assert.Empty(t, api.CallsTo("PUT", "/api/response/edit"))
	assert.Len(t, c.Fields(), 1, "editor stays open")
}

func TestToday_EditOnlyWhenEditable(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.ViewerAnswered("Original")
	api.Prompt.IsEditable = false
	c := loadToday(t, api)

	assert.False(t, hasAction(c.Actions(), "edit"))
	_, err := c.Do(context.Background(), "edit")
	require.NoError(t, err)
	assert.Empty(t, c.Fields())
	assert.NotContains(t, c.Render(), "ctrl+e")
}

func TestToday_CountdownRelabelsYesterday(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	secs := int64(3600)
	api.SecondsUntilNextPrompt = &secs
	c := loadToday(t, api)

	out := c.Render()
	assert.Contains(t, out, "YESTERDAY")
	assert.Contains(t, out, "Today's prompt available in 1h 0m")
	assert.NotContains(t, out, "TODAY")
}

func TestToday_ExpiredWhenCountdownRunsOut(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	secs := int64(90)
	api.SecondsUntilNextPrompt = &secs
	deps := newDeps(t, api)
	now := time.Now()
	deps.Now = func() time.Time { return now }
	c := NewToday(deps)
	defer c.Teardown()
	require.NoError(t, c.Load(context.Background()))

	assert.False(t, c.Expired())
	now = now.Add(89 * time.Second)
	assert.False(t, c.Expired())
	assert.Contains(t, c.Render(), "Today's prompt available in 0m")

	now = now.Add(time.Second)
	assert.True(t, c.Expired(), "a finished countdown asks for a reload")

	api.Lock()
	api.SecondsUntilNextPrompt = nil
	api.Unlock()
	require.NoError(t, c.Load(context.Background()))
	assert.False(t, c.Expired())
	out := c.Render()
	assert.Contains(t, out, "TODAY")
	assert.NotContains(t, out, "available in")
}

func TestToday_NoCountdownNeverExpires(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := loadToday(t, api)
	assert.False(t, c.Expired())
}

func TestToday_CountdownBounds(t *testing.T) {
	for _, secs := range []int64{0, 86400, 90000} {
		api := testutil.NewFakeAPI(t)
		s := secs
		api.SecondsUntilNextPrompt = &s
		c := loadToday(t, api)

		out := c.Render()
		assert.Contains(t, out, "TODAY", "seconds=%d", secs)
		assert.NotContains(t, out, "available in", "seconds=%d", secs)
	}
}

func TestToday_PollTick(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.ViewerAnswered("Original")
	c := loadToday(t, api)
	c.Render()
	ctx := context.Background()

	reloaded, err := c.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, reloaded, "equal count is a no-op")
	assert.Len(t, api.CallsTo("GET", "/api/prompt/today"), 1)

	api.AddResponse(3, "Carol", "A long walk")
	reloaded, err = c.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, reloaded)
	assert.Len(t, api.CallsTo("GET", "/api/prompt/today"), 2)
	assert.Contains(t, c.Render(), "A long walk")

	reloaded, err = c.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, reloaded)
}

func TestToday_PollNotifies(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.ViewerAnswered("Original")
	deps := newDeps(t, api)
	notified := 0
	deps.Notify = func() { notified++ }
	c := NewToday(deps)
	defer c.Teardown()
	require.NoError(t, c.Load(context.Background()))
	c.Render()

	api.AddResponse(3, "Carol", "A long walk")
	_, err := c.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, notified)
}

func TestToday_LoadRedirects(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		message string
		want    string
	}{
		{"Unauthorized", http.StatusUnauthorized, "Authentication required", RouteLogin},
		{"NotInTable", http.StatusNotFound, ErrNotInTable, RouteCreateTable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api := testutil.NewFakeAPI(t)
			api.FailWith("GET", "/api/prompt/today", tc.status, tc.message)
			c := NewToday(newDeps(t, api))
			defer c.Teardown()

			to, ok := RedirectTarget(c.Load(context.Background()))
			require.True(t, ok)
			assert.Equal(t, tc.want, to)
		})
	}
}

func TestToday_LoadErrorShowsBanner(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.FailWith("GET", "/api/prompt/today", http.StatusInternalServerError, "Could not load prompt")
	c := NewToday(newDeps(t, api))
	defer c.Teardown()

	require.Error(t, c.Load(context.Background()))
	assert.Contains(t, c.Render(), "Could not load prompt")
}

func TestToday_TeardownStopsPolling(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.ViewerAnswered("Original")
	c := loadToday(t, api)
	require.True(t, c.Polling())

	c.Teardown()
	assert.False(t, c.Polling())
}

func TestToday_NavActions(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := loadToday(t, api)

	res, err := c.Do(context.Background(), "nav-yesterday")
	require.NoError(t, err)
	assert.Equal(t, RouteYesterday, res.Redirect)

	res, err = c.Do(context.Background(), "nav-settings")
	require.NoError(t, err)
	assert.Equal(t, RouteSettings, res.Redirect)
}
