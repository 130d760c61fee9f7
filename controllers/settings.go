// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package controllers

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/kitchen-table/models"
	"github.com/danielhkuo/kitchen-table/views"
)

const (
	fieldDisplayName = "display_name"
	fieldTableName   = "table_name"
	fieldPromptTime  = "prompt_time"
	fieldPassword    = "password"
	fieldAck         = "ack"

	// DisplayNameMax is the longest display name accepted
	DisplayNameMax = 50
)

// ValidateTableName checks the 3-50 character rule
func ValidateTableName(name string) error {
	n := views.Length(strings.TrimSpace(name))
	if n < models.TableNameMin || n > models.TableNameMax {
		return &ValidationError{Field: fieldTableName, Message: "Table name must be 3-50 characters"}
	}
	return nil
}

// ValidatePromptTime checks a 24-hour "HH:MM" value
func ValidatePromptTime(value string) error {
	if len(value) != 5 {
		return &ValidationError{Field: fieldPromptTime, Message: "Prompt time must be HH:MM"}
	}
	if _, err := time.Parse("15:04", value); err != nil {
		return &ValidationError{Field: fieldPromptTime, Message: "Prompt time must be HH:MM"}
	}
	return nil
}

type modalKind int

const (
	modalLeave modalKind = iota
	modalDelete
)

// confirmModal guards a destructive action
type confirmModal struct {
	kind         modalKind
	ack          bool
	password     string
	passwordView string
	err          string
}

// Settings is the /table/settings page
type Settings struct {
	tablePage

	mu      sync.Mutex
	loaded  bool
	loadErr string
	in      inputs
	banner  string
	notice  string
	modal   *confirmModal
}

func NewSettings(deps Deps) *Settings {
	return &Settings{
		tablePage: tablePage{deps: deps, active: views.TabSettings},
		in:        newInputs(),
	}
}

// Load fetches table info, which is both the header and the page payload
func (c *Settings) Load(ctx context.Context) error {
	info, err := c.deps.API.TableInfo(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = true
	if err != nil {
		err = pageLoadError(err)
		if _, ok := RedirectTarget(err); !ok {
			c.loadErr = errorMessage(err)
			slog.Warn("failed to load settings", "error", err)
		}
		return err
	}
	c.info = info
	c.loadErr = ""
	if info.User != nil {
		c.in.values[fieldDisplayName] = info.User.DisplayName
	}
	c.in.values[fieldTableName] = info.Table.Name
	c.in.values[fieldPromptTime] = info.Table.PromptTime
	return nil
}

func (c *Settings) isOwner() bool {
	return c.info != nil && c.info.Table.IsOwner
}

func (c *Settings) Render() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	header := c.header()
	if !c.loaded {
		return views.Stack(header, views.MutedStyle.Render("Loading..."))
	}
	if c.info == nil {
		return views.Stack(header, views.Banner(c.loadErr), views.Help(hints(navActions())))
	}

	var modal string
	if c.modal != nil {
		modal = c.renderModal()
	}

	page := views.Settings(views.SettingsView{
		Table:      c.info.Table,
		Members:    c.info.Members,
		Profile:    c.in.field(fieldDisplayName, "Display name", false),
		TableName:  c.in.field(fieldTableName, "Table name", false),
		PromptTime: c.in.field(fieldPromptTime, "Daily prompt time (HH:MM)", false),
		Banner:     c.banner,
		Notice:     c.notice,
		Modal:      modal,
	})
	return views.Stack(header, page, views.Help(hints(navActions())))
}

func (c *Settings) renderModal() string {
	m := c.modal
	view := views.ModalView{
		Ack:   m.ack,
		Error: m.err,
	}
	switch m.kind {
	case modalLeave:
		view.Title = "Leave table"
		view.Body = "Are you sure you want to leave this table? You will need an invite code to rejoin."
		view.AckText = "I understand I will lose access to this table"
		view.Confirm = "Leave Table"
	case modalDelete:
		view.Title = "Delete account"
		view.Body = "This permanently deletes your account and all of your responses."
		view.AckText = "I understand this cannot be undone"
		view.Confirm = "Delete Account"
		view.Password = &views.FieldView{
			Label:  "Enter your password to confirm",
			Input:  m.passwordView,
			Value:  m.password,
			Secret: true,
		}
	}
	return views.Modal(view)
}

func (c *Settings) Teardown() {}

func (c *Settings) Fields() []Field {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.modal != nil {
		if c.modal.kind == modalDelete {
			return []Field{{Name: fieldPassword, Label: "Password", Value: c.modal.password, Secret: true}}
		}
		return nil
	}
	if c.info == nil {
		return nil
	}
	fields := []Field{{Name: fieldDisplayName, Label: "Display name", Value: c.in.values[fieldDisplayName], Limit: DisplayNameMax}}
	if c.isOwner() {
		fields = append(fields,
			Field{Name: fieldTableName, Label: "Table name", Value: c.in.values[fieldTableName], Limit: models.TableNameMax},
			Field{Name: fieldPromptTime, Label: "Daily prompt time", Value: c.in.values[fieldPromptTime], Placeholder: models.DefaultPromptTime, Limit: 5},
		)
	}
	return fields
}

func (c *Settings) SetField(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name == fieldPassword {
		if c.modal != nil {
			c.modal.password = value
		}
		return
	}
	c.in.values[name] = value
}

func (c *Settings) SetFieldView(name, view string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name == fieldPassword {
		if c.modal != nil {
			c.modal.passwordView = view
		}
		return
	}
	c.in.views[name] = view
}

func (c *Settings) Actions() []Action {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.modal != nil {
		return []Action{
			{Key: "ctrl+k", Label: "Acknowledge", Name: "ack"},
			{Key: "ctrl+s", Label: "Confirm", Name: "confirm"},
			{Key: "esc", Label: "Cancel", Name: "cancel"},
		}
	}
	var actions []Action
	if c.info != nil {
		actions = append(actions, Action{Key: "ctrl+s", Label: "Save profile", Name: "save-profile"})
		if c.isOwner() {
			actions = append(actions, Action{Key: "ctrl+a", Label: "Save changes", Name: "save-table"})
		}
		actions = append(actions,
			Action{Key: "ctrl+l", Label: "Leave table", Name: "leave"},
			Action{Key: "ctrl+x", Label: "Delete account", Name: "delete"},
		)
	}
	return append(actions, navActions()...)
}

func (c *Settings) Do(ctx context.Context, action string) (Result, error) {
	c.mu.Lock()
	modalOpen := c.modal != nil
	c.mu.Unlock()

	if modalOpen {
		switch action {
		case "ack":
			c.mu.Lock()
			c.modal.ack = !c.modal.ack
			c.mu.Unlock()
			return Result{}, nil
		case "cancel":
			c.mu.Lock()
			c.modal = nil
			c.mu.Unlock()
			return Result{}, nil
		case "confirm":
			return c.confirm(ctx)
		}
		return Result{}, nil
	}

	if res, ok := c.doNav(ctx, action); ok {
		return res, nil
	}

	switch action {
	case "save-profile":
		return Result{}, c.saveProfile(ctx)
	case "save-table":
		return Result{}, c.saveTable(ctx)
	case "leave":
		c.openModal(modalLeave)
	case "delete":
		c.openModal(modalDelete)
	}
	return Result{}, nil
}

func (c *Settings) openModal(kind modalKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal = &confirmModal{kind: kind}
}

// begin clears messages and errors before an action
func (c *Settings) begin() {
	c.banner = ""
	c.notice = ""
	c.in.clearErrors()
}

func (c *Settings) saveProfile(ctx context.Context) error {
	c.mu.Lock()
	c.begin()
	name := strings.TrimSpace(c.in.values[fieldDisplayName])
	var err error
	switch {
	case name == "":
		err = &ValidationError{Field: fieldDisplayName, Message: "Display name is required"}
	case views.Length(name) > DisplayNameMax:
		err = &ValidationError{Field: fieldDisplayName, Message: "Display name must be 50 characters or less"}
	}
	if err != nil {
		c.in.setError(err)
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	if _, err := c.deps.API.UpdateProfile(ctx, name); err != nil {
		c.fail(err)
		return err
	}
	slog.Info("profile updated")
	return c.succeed(ctx, "Profile updated")
}

func (c *Settings) saveTable(ctx context.Context) error {
	c.mu.Lock()
	c.begin()
	if !c.isOwner() {
		err := &ValidationError{Message: "Only the table owner can update settings"}
		c.banner = err.Message
		c.mu.Unlock()
		return err
	}
	req := models.TableSettingsRequest{
		Name:       strings.TrimSpace(c.in.values[fieldTableName]),
		PromptTime: strings.TrimSpace(c.in.values[fieldPromptTime]),
	}
	err := ValidateTableName(req.Name)
	if err == nil {
		err = ValidatePromptTime(req.PromptTime)
	}
	if err != nil {
		c.in.setError(err)
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	if _, err := c.deps.API.UpdateTableSettings(ctx, req); err != nil {
		c.fail(err)
		return err
	}
	slog.Info("table settings updated", "name", req.Name, "prompt_time", req.PromptTime)
	return c.succeed(ctx, "Settings saved successfully!")
}

func (c *Settings) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.banner = errorMessage(err)
	slog.Warn("settings action failed", "error", err)
}

// succeed refetches the page and keeps the notice across the refetch
func (c *Settings) succeed(ctx context.Context, notice string) error {
	err := c.Load(ctx)
	c.mu.Lock()
	c.notice = notice
	c.mu.Unlock()
	return err
}

func (c *Settings) confirm(ctx context.Context) (Result, error) {
	c.mu.Lock()
	m := c.modal
	m.err = ""
	var verr error
	switch {
	case !m.ack:
		verr = &ValidationError{Field: fieldAck, Message: "Please confirm you understand"}
	case m.kind == modalDelete && m.password == "":
		verr = &ValidationError{Field: fieldPassword, Message: "Please enter your password"}
	}
	if verr != nil {
		m.err = verr.Error()
		c.mu.Unlock()
		return Result{}, verr
	}
	kind, password := m.kind, m.password
	c.mu.Unlock()

	var (
		resp     *models.MessageResponse
		err      error
		fallback string
	)
	if kind == modalDelete {
		resp, err = c.deps.API.DeleteAccount(ctx, password)
		fallback = RouteHome
	} else {
		resp, err = c.deps.API.LeaveTable(ctx)
		fallback = RouteCreateTable
	}
	if err != nil {
		c.mu.Lock()
		if c.modal != nil {
			c.modal.err = errorMessage(err)
		}
		c.mu.Unlock()
		slog.Warn("destructive action failed", "delete_account", kind == modalDelete, "error", err)
		return Result{}, err
	}

	c.mu.Lock()
	c.modal = nil
	c.mu.Unlock()

	if kind == modalDelete {
		clearSession(c.deps)
		slog.Info("account deleted")
	} else {
		slog.Info("left table")
	}

	to := fallback
	if resp != nil && resp.Redirect != "" {
		to = resp.Redirect
	}
	return Result{Redirect: to}, nil
}
