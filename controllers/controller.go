// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielhkuo/kitchen-table/apiclient"
	"github.com/danielhkuo/kitchen-table/auth"
	"github.com/danielhkuo/kitchen-table/views"
)

// Routes the controllers redirect to
const (
	RouteHome        = "/"
	RouteLogin       = "/login"
	RouteSignup      = "/signup"
	RouteForgot      = "/forgot-password"
	RouteCreateTable = "/create-table"
	RouteJoinTable   = "/join-table"
	RouteToday       = "/table"
	RouteYesterday   = "/table/yesterday"
	RouteSettings    = "/table/settings"
	RouteHistory     = "/table/history/"
)

// ErrNotInTable is the server message for a viewer without a table
const ErrNotInTable = "Not in a table"

// Controller is one page. Load fetches, Render projects the latest state,
// Teardown releases timers.
type Controller interface {
	Load(ctx context.Context) error
	Render() string
	Teardown()
}

// Expiring is a controller whose content goes stale at a known moment
type Expiring interface {
	Controller
	// Expired reports whether the page should be reloaded now
	Expired() bool
}

// Interactive is a controller that accepts input and actions
type Interactive interface {
	Controller
	// Fields lists the editable fields currently shown, in focus order
	Fields() []Field
	// SetField stores a field's raw value; controllers may normalize it
	SetField(name, value string)
	// SetFieldView supplies the live widget rendering for a field
	SetFieldView(name, view string)
	// Actions lists the key bindings currently available
	Actions() []Action
	Do(ctx context.Context, action string) (Result, error)
}

type Field struct {
	Name        string
	Label       string
	Value       string
	Placeholder string
	Multiline   bool
	Secret      bool
	Limit       int
}

type Action struct {
	Key   string
	Label string
	Name  string
}

// Result tells the caller what follows a successful action
type Result struct {
	Redirect string
	// Reload asks for a full page reload: teardown, resolve, load
	Reload bool
}

// ValidationError is caught before any network call and shown inline
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Redirect is returned by Load when the page belongs somewhere else
type Redirect struct {
	To string
}

func (r *Redirect) Error() string {
	return "redirect to " + r.To
}

// RedirectTarget returns the route carried by a *Redirect error
func RedirectTarget(err error) (string, bool) {
	var r *Redirect
	if errors.As(err, &r) {
		return r.To, true
	}
	return "", false
}

// Viewer identifies the signed-in user from local session state
type Viewer interface {
	ViewerID() int64
	HasSession() bool
}

// Deps are shared by every controller
type Deps struct {
	API          *apiclient.Client
	Viewer       Viewer
	Now          func() time.Time
	PollInterval time.Duration
	// Notify is called after a background reload so the UI redraws
	Notify       func()
	LoginLimiter *auth.AttemptLimiter
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) viewerID() int64 {
	if d.Viewer == nil {
		return 0
	}
	return d.Viewer.ViewerID()
}

func (d Deps) notify() {
	if d.Notify != nil {
		d.Notify()
	}
}

// pageLoadError maps load failures that mean "wrong page" to redirects
func pageLoadError(err error) error {
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Status == http.StatusUnauthorized:
		return &Redirect{To: RouteLogin}
	case apiErr.Status == http.StatusNotFound && apiErr.Message == ErrNotInTable:
		return &Redirect{To: RouteCreateTable}
	}
	return err
}

// errorMessage extracts what a banner shows for a user-initiated failure
func errorMessage(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	return apiclient.FallbackMessage
}

// inputs holds form values, widget views and inline errors
type inputs struct {
	values map[string]string
	views  map[string]string
	errs   map[string]string
}

func newInputs() inputs {
	return inputs{
		values: map[string]string{},
		views:  map[string]string{},
		errs:   map[string]string{},
	}
}

func (in inputs) field(name, label string, secret bool) views.FieldView {
	return views.FieldView{
		Label:  label,
		Input:  in.views[name],
		Value:  in.values[name],
		Secret: secret,
		Error:  in.errs[name],
	}
}

func (in inputs) clearErrors() {
	for k := range in.errs {
		delete(in.errs, k)
	}
}

func (in inputs) reset() {
	for k := range in.values {
		delete(in.values, k)
	}
	for k := range in.views {
		delete(in.views, k)
	}
	in.clearErrors()
}

// setError records a validation error against its field
func (in inputs) setError(err error) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		in.errs[vErr.Field] = vErr.Message
	}
}

func hints(actions []Action) []views.KeyHint {
	out := make([]views.KeyHint, 0, len(actions))
	for _, a := range actions {
		out = append(out, views.KeyHint{Key: a.Key, Label: a.Label})
	}
	return out
}
