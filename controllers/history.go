// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package controllers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/danielhkuo/kitchen-table/apiclient"
	"github.com/danielhkuo/kitchen-table/models"
	"github.com/danielhkuo/kitchen-table/views"
)

const (
	dateLayout = "2006-01-02"
	// LookbackDays bounds how far back "previous" navigation goes
	LookbackDays = 7
)

// HistoryLinks computes the previous/next routes for a viewed ISO date.
// Previous is offered while the date is fewer than LookbackDays back from
// today; next only when the date is before today.
func HistoryLinks(viewed, today string) (prev, next string) {
	v, err := time.Parse(dateLayout, viewed)
	if err != nil {
		return "", ""
	}
	t, err := time.Parse(dateLayout, today)
	if err != nil {
		return "", ""
	}

	daysBack := int(t.Sub(v).Hours() / 24)
	if daysBack < LookbackDays {
		prev = historyRoute(v.AddDate(0, 0, -1), t)
	}
	if daysBack > 0 {
		next = historyRoute(v.AddDate(0, 0, 1), t)
	}
	return prev, next
}

func historyRoute(d, today time.Time) string {
	switch {
	case d.Equal(today):
		return RouteToday
	case d.Equal(today.AddDate(0, 0, -1)):
		return RouteYesterday
	}
	return RouteHistory + d.Format(dateLayout)
}

// History shows responses for a past day. An empty date means yesterday.
type History struct {
	tablePage
	date string

	mu      sync.Mutex
	payload *models.DatePayload
	loaded  bool
	missing bool
	loadErr string
	banner  string
	edit    editor
}

func NewYesterday(deps Deps) *History {
	return NewHistory(deps, "")
}

func NewHistory(deps Deps, date string) *History {
	active := ""
	if date == "" {
		active = views.TabYesterday
	}
	return &History{tablePage: tablePage{deps: deps, active: active}, date: date}
}

func (c *History) today() string {
	return c.deps.now().Format(dateLayout)
}

func (c *History) Load(ctx context.Context) error {
	if c.date != "" {
		if _, err := time.Parse(dateLayout, c.date); err != nil {
			c.mu.Lock()
			c.loaded = true
			c.loadErr = "Invalid date: " + c.date
			c.mu.Unlock()
			return &ValidationError{Field: "date", Message: "Invalid date: " + c.date}
		}
	}

	var payload *models.DatePayload
	info, err := c.fetchWithHeader(ctx, func(ctx context.Context) error {
		var err error
		if c.date == "" {
			payload, err = c.deps.API.YesterdayPrompt(ctx)
		} else {
			payload, err = c.deps.API.DatePrompt(ctx, c.date)
		}
		return err
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = true
	if info != nil {
		c.info = info
	}
	if err != nil {
		err = pageLoadError(err)
		if _, ok := RedirectTarget(err); ok {
			return err
		}
		if apiclient.IsStatus(err, http.StatusNotFound) {
			c.payload = nil
			c.missing = true
			c.loadErr = ""
			return nil
		}
		c.loadErr = errorMessage(err)
		slog.Warn("failed to load history", "date", c.date, "error", err)
		return err
	}
	c.payload = payload
	c.missing = false
	c.loadErr = ""
	if payload.UserResponse == nil || !payload.Prompt.IsEditable {
		c.edit.cancel()
	}
	return nil
}

// viewed returns the ISO date on screen
func (c *History) viewed() string {
	if c.payload != nil && c.payload.Date != "" {
		return c.payload.Date
	}
	if c.date != "" {
		return c.date
	}
	return c.deps.now().AddDate(0, 0, -1).Format(dateLayout)
}

func dayLabel(viewed, today string) string {
	v, err1 := time.Parse(dateLayout, viewed)
	t, err2 := time.Parse(dateLayout, today)
	if err1 != nil || err2 != nil {
		return ""
	}
	switch days := int(t.Sub(v).Hours() / 24); days {
	case 0:
		return "TODAY"
	case 1:
		return "YESTERDAY"
	default:
		return fmt.Sprintf("%d DAYS AGO", days)
	}
}

func (c *History) Render() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	header := c.header()
	if !c.loaded {
		return views.Stack(header, views.MutedStyle.Render("Loading..."))
	}

	viewed := c.viewed()
	today := c.today()
	prev, next := HistoryLinks(viewed, today)
	nav := views.HistoryNav(prev, next)
	help := views.Help(hints(c.actionsLocked()))

	if c.loadErr != "" {
		return views.Stack(header, views.Banner(c.loadErr), nav, help)
	}
	if c.missing || c.payload == nil {
		date := views.DateHeader(views.DateHeaderView{Label: dayLabel(viewed, today), Date: viewed})
		return views.Stack(header, date, views.EmptyState("🤷", views.NoPrompt), nav, help)
	}

	empty := views.EmptyDay
	if c.date == "" {
		empty = views.EmptyYesterday
	}
	date := views.DateHeader(views.DateHeaderView{
		Label:      dayLabel(viewed, today),
		Date:       viewed,
		PromptText: c.payload.Prompt.PromptText,
	})
	list := views.ResponseList(views.ResponseListView{
		Responses: c.payload.AllResponses(),
		ViewerID:  c.viewerID(c.payload.UserResponse),
		Editable:  c.payload.Prompt.IsEditable,
		Editing:   c.edit.active,
		Editor:    c.edit.editorView(),
		EditError: c.edit.err,
		Now:       c.deps.now(),
		EmptyIcon: "🤷",
		EmptyText: empty,
	})
	return views.Stack(header, date, list, views.Banner(c.banner), nav, help)
}

func (c *History) Teardown() {}

func (c *History) Fields() []Field {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.edit.active {
		return []Field{c.edit.field()}
	}
	return nil
}

func (c *History) SetField(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name == fieldEdit {
		c.edit.text = value
	}
}

func (c *History) SetFieldView(name, view string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name == fieldEdit {
		c.edit.view = view
	}
}

func (c *History) Actions() []Action {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actionsLocked()
}

func (c *History) editable() bool {
	return c.payload != nil && c.payload.UserResponse != nil && c.payload.Prompt.IsEditable
}

func (c *History) actionsLocked() []Action {
	var actions []Action
	prev, next := HistoryLinks(c.viewed(), c.today())
	if prev != "" {
		actions = append(actions, Action{Key: "ctrl+p", Label: "Previous day", Name: "prev"})
	}
	if next != "" {
		actions = append(actions, Action{Key: "ctrl+n", Label: "Next day", Name: "next"})
	}
	if c.editable() {
		if c.edit.active {
			actions = append(actions, c.edit.actions()...)
		} else {
			actions = append(actions, Action{Key: "ctrl+e", Label: "Edit", Name: "edit"})
		}
	}
	return append(actions, navActions()...)
}

func (c *History) Do(ctx context.Context, action string) (Result, error) {
	if res, ok := c.doNav(ctx, action); ok {
		return res, nil
	}

	c.mu.Lock()
	prev, next := HistoryLinks(c.viewed(), c.today())
	c.mu.Unlock()

	switch action {
	case "prev":
		if prev != "" {
			return Result{Redirect: prev}, nil
		}
	case "next":
		if next != "" {
			return Result{Redirect: next}, nil
		}
	case "edit":
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.editable() {
			c.edit.start(c.payload.UserResponse.ResponseText)
		}
	case "cancel-edit":
		c.mu.Lock()
		defer c.mu.Unlock()
		c.edit.cancel()
	case "save-edit":
		return Result{}, c.saveEdit(ctx)
	}
	return Result{}, nil
}

func (c *History) saveEdit(ctx context.Context) error {
	c.mu.Lock()
	if !c.edit.active || !c.editable() {
		c.mu.Unlock()
		return nil
	}
	promptID := c.payload.Prompt.ID
	text := c.edit.text
	c.edit.err = ""
	c.banner = ""
	c.mu.Unlock()

	if err := saveEdit(ctx, c.deps.API, promptID, text); err != nil {
		c.mu.Lock()
		c.edit.err = errorMessage(err)
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.edit.cancel()
	c.mu.Unlock()
	return c.Load(ctx)
}
