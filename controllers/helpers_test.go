// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package controllers

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/kitchen-table/testutil"
)

type stubViewer struct {
	id      int64
	session bool
	cleared int
}

func (v *stubViewer) ViewerID() int64  { return v.id }
func (v *stubViewer) HasSession() bool { return v.session }
func (v *stubViewer) Clear() error {
	v.cleared++
	v.session = false
	return nil
}

func newDeps(t *testing.T, api *testutil.FakeAPI) Deps {
	t.Helper()
	now := time.Now()
	return Deps{
		API:          api.Client(),
		Viewer:       &stubViewer{id: testutil.ViewerID, session: true},
		Now:          func() time.Time { return now },
		PollInterval: time.Hour,
	}
}

func requireValidation(t *testing.T, err error, message string) {
	t.Helper()
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr), "expected a validation error, got %v", err)
	require.Equal(t, message, vErr.Message)
}

func hasAction(actions []Action, name string) bool {
	for _, a := range actions {
		if a.Name == name {
			return true
		}
	}
	return false
}

func fieldNames(fields []Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}
