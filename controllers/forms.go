// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package controllers

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/danielhkuo/kitchen-table/apiclient"
	"github.com/danielhkuo/kitchen-table/auth"
	"github.com/danielhkuo/kitchen-table/models"
	"github.com/danielhkuo/kitchen-table/views"
)

const (
	fieldUsername   = "username"
	fieldEmail      = "email"
	fieldConfirm    = "confirm_password"
	fieldInviteCode = "invite_code"
)

// RouteReset is the prefix of the reset-password route
const RouteReset = "/reset-password/"

type formDef struct {
	name     string
	title    string
	subtitle string
	submit   string
	fields   []Field
	links    []Action
	// normalize rewrites a field value as it is typed
	normalize func(name, value string) string
	validate  func(values map[string]string) error
	send      func(ctx context.Context, api *apiclient.Client, values map[string]string) (*models.MessageResponse, error)
	// fallback is where a success without a redirect goes; empty keeps the
	// form open and shows the server message
	fallback string
}

// Form is a generic account or table form
type Form struct {
	deps Deps
	def  formDef

	mu         sync.Mutex
	in         inputs
	formErr    string
	banner     string
	notice     string
	busy       bool
	resetToken string
}

func newForm(deps Deps, def formDef) *Form {
	f := &Form{deps: deps, def: def, in: newInputs()}
	for _, field := range def.fields {
		if field.Value != "" {
			f.in.values[field.Name] = field.Value
		}
	}
	return f
}

func link(key, label, route string) Action {
	return Action{Key: key, Label: label, Name: "link:" + route}
}

func required(values map[string]string, names ...string) error {
	for _, n := range names {
		if strings.TrimSpace(values[n]) == "" {
			return &ValidationError{Message: "Please fill in all fields"}
		}
	}
	return nil
}

// fieldError ties a package auth error to its input
func fieldError(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

func NewLogin(deps Deps) *Form {
	return newForm(deps, formDef{
		name:     "login",
		title:    "Welcome back",
		subtitle: "Pull up a chair at the kitchen table.",
		submit:   "Log in",
		fields: []Field{
			{Name: fieldUsername, Label: "Username or email"},
			{Name: fieldPassword, Label: "Password", Secret: true},
		},
		links: []Action{
			link("ctrl+n", "Create an account", RouteSignup),
			link("ctrl+f", "Forgot password?", RouteForgot),
		},
		validate: func(v map[string]string) error {
			if err := required(v, fieldUsername, fieldPassword); err != nil {
				return err
			}
			if deps.LoginLimiter != nil {
				if err := deps.LoginLimiter.Allow(); err != nil {
					return &ValidationError{Message: err.Error()}
				}
			}
			return nil
		},
		send: func(ctx context.Context, api *apiclient.Client, v map[string]string) (*models.MessageResponse, error) {
			return api.Login(ctx, models.LoginRequest{Username: strings.TrimSpace(v[fieldUsername]), Password: v[fieldPassword]})
		},
		fallback: RouteToday,
	})
}

func NewSignup(deps Deps) *Form {
	return newForm(deps, formDef{
		name:     "signup",
		title:    "Join the table",
		subtitle: "One question a day, shared with the people you love.",
		submit:   "Create account",
		fields: []Field{
			{Name: fieldUsername, Label: "Username"},
			{Name: fieldEmail, Label: "Email"},
			{Name: fieldPassword, Label: "Password", Secret: true},
			{Name: fieldConfirm, Label: "Confirm password", Secret: true},
		},
		links: []Action{link("ctrl+n", "Already have an account? Log in", RouteLogin)},
		validate: func(v map[string]string) error {
			if err := fieldError(fieldUsername, auth.ValidateUsername(strings.TrimSpace(v[fieldUsername]))); err != nil {
				return err
			}
			if err := fieldError(fieldEmail, auth.ValidateEmail(strings.TrimSpace(v[fieldEmail]))); err != nil {
				return err
			}
			if err := fieldError(fieldPassword, auth.ValidatePassword(v[fieldPassword])); err != nil {
				return err
			}
			return fieldError(fieldConfirm, auth.ConfirmPassword(v[fieldPassword], v[fieldConfirm]))
		},
		send: func(ctx context.Context, api *apiclient.Client, v map[string]string) (*models.MessageResponse, error) {
			return api.Signup(ctx, models.SignupRequest{
				Username: strings.TrimSpace(v[fieldUsername]),
				Email:    strings.TrimSpace(v[fieldEmail]),
				Password: v[fieldPassword],
			})
		},
		fallback: RouteCreateTable,
	})
}

func NewForgotPassword(deps Deps) *Form {
	return newForm(deps, formDef{
		name:     "forgot",
		title:    "Forgot your password?",
		subtitle: "Enter your email and we'll send you a reset link.",
		submit:   "Send reset link",
		fields:   []Field{{Name: fieldEmail, Label: "Email"}},
		links:    []Action{link("ctrl+n", "Back to login", RouteLogin)},
		validate: func(v map[string]string) error {
			return fieldError(fieldEmail, auth.ValidateEmail(strings.TrimSpace(v[fieldEmail])))
		},
		send: func(ctx context.Context, api *apiclient.Client, v map[string]string) (*models.MessageResponse, error) {
			return api.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: strings.TrimSpace(v[fieldEmail])})
		},
	})
}

func NewResetPassword(deps Deps, token string) *Form {
	return newForm(deps, formDef{
		name:     "reset",
		title:    "Choose a new password",
		submit:   "Reset password",
		fields: []Field{
			{Name: fieldPassword, Label: "New password", Secret: true},
			{Name: fieldConfirm, Label: "Confirm password", Secret: true},
		},
		links: []Action{link("ctrl+n", "Back to login", RouteLogin)},
		validate: func(v map[string]string) error {
			if err := fieldError(fieldPassword, auth.ValidatePassword(v[fieldPassword])); err != nil {
				return err
			}
			return fieldError(fieldConfirm, auth.ConfirmPassword(v[fieldPassword], v[fieldConfirm]))
		},
		send: func(ctx context.Context, api *apiclient.Client, v map[string]string) (*models.MessageResponse, error) {
			return api.ResetPassword(ctx, models.ResetPasswordRequest{Token: token, Password: v[fieldPassword]})
		},
		fallback: RouteLogin,
	})
}

func NewCreateTable(deps Deps) *Form {
	return newForm(deps, formDef{
		name:     "create-table",
		title:    "Set your kitchen table",
		subtitle: "Name your table and pick when the daily question arrives.",
		submit:   "Create table",
		fields: []Field{
			{Name: fieldTableName, Label: "Table name", Placeholder: "The Smith Family", Limit: models.TableNameMax},
			{Name: fieldPromptTime, Label: "Daily prompt time (HH:MM)", Value: models.DefaultPromptTime, Limit: 5},
		},
		links: []Action{link("ctrl+j", "Have an invite code? Join a table", RouteJoinTable)},
		validate: func(v map[string]string) error {
			if err := ValidateTableName(v[fieldTableName]); err != nil {
				return err
			}
			return ValidatePromptTime(strings.TrimSpace(v[fieldPromptTime]))
		},
		send: func(ctx context.Context, api *apiclient.Client, v map[string]string) (*models.MessageResponse, error) {
			return api.CreateTable(ctx, models.CreateTableRequest{
				Name:       strings.TrimSpace(v[fieldTableName]),
				PromptTime: strings.TrimSpace(v[fieldPromptTime]),
			})
		},
		fallback: RouteToday,
	})
}

func NewJoinTable(deps Deps) *Form {
	return newForm(deps, formDef{
		name:     "join-table",
		title:    "Join a kitchen table",
		subtitle: "Enter the invite code someone shared with you.",
		submit:   "Join table",
		fields:   []Field{{Name: fieldInviteCode, Label: "Invite code", Placeholder: "ABCD-EFGH", Limit: 9}},
		links:    []Action{link("ctrl+n", "Start your own table instead", RouteCreateTable)},
		normalize: func(name, value string) string {
			if name == fieldInviteCode {
				return auth.FormatInviteCode(value)
			}
			return value
		},
		validate: func(v map[string]string) error {
			if v[fieldInviteCode] == "" {
				return &ValidationError{Field: fieldInviteCode, Message: "Please enter an invite code"}
			}
			return nil
		},
		send: func(ctx context.Context, api *apiclient.Client, v map[string]string) (*models.MessageResponse, error) {
			return api.JoinTable(ctx, models.JoinTableRequest{InviteCode: v[fieldInviteCode]})
		},
		fallback: RouteToday,
	})
}

// Load has nothing to fetch; forms render from local state
func (f *Form) Load(ctx context.Context) error {
	return nil
}

func (f *Form) Render() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	fields := make([]views.FieldView, 0, len(f.def.fields))
	for _, field := range f.def.fields {
		fields = append(fields, f.in.field(field.Name, field.Label, field.Secret))
	}
	submit := f.def.submit
	if f.busy {
		submit += "..."
	}

	links := hints(f.def.links)
	if f.resetToken != "" {
		links = append(links, views.KeyHint{Key: "ctrl+r", Label: "Open reset link"})
	}

	return views.Form(views.FormView{
		Title:    f.def.title,
		Subtitle: f.def.subtitle,
		Fields:   fields,
		Error:    f.formErr,
		Banner:   f.banner,
		Notice:   f.notice,
		Submit:   submit,
		Busy:     f.busy,
		Links:    links,
	})
}

func (f *Form) Teardown() {}

func (f *Form) Fields() []Field {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Field, len(f.def.fields))
	for i, field := range f.def.fields {
		field.Value = f.in.values[field.Name]
		out[i] = field
	}
	return out
}

func (f *Form) SetField(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.def.normalize != nil {
		value = f.def.normalize(name, value)
	}
	f.in.values[name] = value
}

func (f *Form) SetFieldView(name, view string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.in.views[name] = view
}

func (f *Form) Actions() []Action {
	f.mu.Lock()
	defer f.mu.Unlock()
	actions := []Action{{Key: "enter", Label: f.def.submit, Name: "submit"}}
	if f.resetToken != "" {
		actions = append(actions, Action{Key: "ctrl+r", Label: "Open reset link", Name: "open-reset"})
	}
	return append(actions, f.def.links...)
}

func (f *Form) Do(ctx context.Context, action string) (Result, error) {
	switch {
	case action == "submit":
		return f.submit(ctx)
	case action == "open-reset":
		f.mu.Lock()
		token := f.resetToken
		f.mu.Unlock()
		if token != "" {
			return Result{Redirect: RouteReset + token}, nil
		}
	case strings.HasPrefix(action, "link:"):
		return Result{Redirect: strings.TrimPrefix(action, "link:")}, nil
	}
	return Result{}, nil
}

func (f *Form) submit(ctx context.Context) (Result, error) {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return Result{}, nil
	}
	f.in.clearErrors()
	f.formErr = ""
	f.banner = ""
	f.notice = ""

	values := make(map[string]string, len(f.in.values))
	for k, v := range f.in.values {
		values[k] = v
	}
	if err := f.def.validate(values); err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) && vErr.Field != "" {
			f.in.setError(err)
		} else {
			f.formErr = err.Error()
		}
		f.mu.Unlock()
		return Result{}, err
	}
	f.busy = true
	f.mu.Unlock()

	resp, err := f.def.send(ctx, f.deps.API, values)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	if err != nil {
		f.banner = errorMessage(err)
		slog.Warn("form submit failed", "form", f.def.name, "error", err)
		return Result{}, err
	}
	slog.Info("form submitted", "form", f.def.name)

	if resp.Redirect != "" {
		return Result{Redirect: resp.Redirect}, nil
	}
	if f.def.fallback != "" {
		return Result{Redirect: f.def.fallback}, nil
	}

	// stay on the page: show the server message and clear the inputs
	f.notice = resp.Message
	if resp.ResetToken != "" {
		f.resetToken = resp.ResetToken
		f.notice += " Reset link: " + RouteReset + resp.ResetToken
	}
	f.in.reset()
	return Result{}, nil
}
