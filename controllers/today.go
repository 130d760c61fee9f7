// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package controllers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/kitchen-table/models"
	"github.com/danielhkuo/kitchen-table/poller"
	"github.com/danielhkuo/kitchen-table/views"
)

const fieldResponse = "response"

// Today is the /table page: a composer until the viewer answers, then every
// response for the day with polling for new ones.
type Today struct {
	tablePage
	poller *poller.Poller

	mu         sync.Mutex
	payload    *models.TodayPayload
	loadedAt   time.Time
	loadErr    string
	draft      string
	draftView  string
	submitting bool
	formErr    string
	banner     string
	edit       editor
	rendered   int
}

func NewToday(deps Deps) *Today {
	c := &Today{tablePage: tablePage{deps: deps, active: views.TabToday}}
	c.poller = poller.New(deps.PollInterval, c, deps.notify)
	return c
}

// Load fetches table info and today's prompt. Entering the answered state
// restarts the poller; otherwise it is paused.
func (c *Today) Load(ctx context.Context) error {
	var payload *models.TodayPayload
	info, err := c.fetchWithHeader(ctx, func(ctx context.Context) error {
		p, err := c.deps.API.TodayPrompt(ctx)
		payload = p
		return err
	})

	c.mu.Lock()
	if info != nil {
		c.info = info
	}
	if err != nil {
		err = pageLoadError(err)
		if _, ok := RedirectTarget(err); !ok {
			c.loadErr = errorMessage(err)
		}
		c.submitting = false
		c.mu.Unlock()
		slog.Warn("failed to load today's prompt", "error", err)
		return err
	}
	c.payload = payload
	c.loadedAt = c.deps.now()
	c.loadErr = ""
	c.submitting = false
	answered := payload.UserResponse != nil
	if answered {
		c.draft = ""
		c.draftView = ""
		c.formErr = ""
	}
	if !answered || !payload.Prompt.IsEditable {
		c.edit.cancel()
	}
	c.mu.Unlock()

	if answered {
		c.poller.Start()
	} else {
		c.poller.Pause()
	}
	return nil
}

// Polling source

func (c *Today) FetchCount(ctx context.Context) (int, error) {
	poll, err := c.deps.API.PollResponses(ctx)
	if err != nil {
		return 0, err
	}
	return poll.ResponseCount(), nil
}

func (c *Today) RenderedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rendered
}

func (c *Today) Reload(ctx context.Context) error {
	return c.Load(ctx)
}

// Answered reports whether the response list is shown
func (c *Today) Answered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payload != nil && c.payload.UserResponse != nil
}

// Polling reports whether the poll loop is running
func (c *Today) Polling() bool {
	return c.poller.Running()
}

// Tick runs one poll check synchronously
func (c *Today) Tick(ctx context.Context) (bool, error) {
	return c.poller.Tick(ctx)
}

// dateLabel returns the day label and the countdown text. A positive wait
// under a day means the window already rolled but today's prompt has not
// opened, so the shown day is yesterday.
func (c *Today) dateLabel() (string, string) {
	remaining, waiting := c.remainingLocked()
	if !waiting {
		return "TODAY", ""
	}
	if remaining < 0 {
		remaining = 0
	}
	return "YESTERDAY", "Today's prompt available in " + views.FormatCountdown(remaining)
}

// remainingLocked returns the seconds left until today's prompt opens and
// whether the page is waiting for it at all
func (c *Today) remainingLocked() (int64, bool) {
	if c.payload == nil {
		return 0, false
	}
	secs := c.payload.SecondsUntilNextPrompt
	if secs == nil || *secs <= 0 || *secs >= 86400 {
		return 0, false
	}
	elapsed := int64(c.deps.now().Sub(c.loadedAt) / time.Second)
	return *secs - elapsed, true
}

// Expired reports whether the countdown to today's prompt has run out while
// the page still shows yesterday
func (c *Today) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	remaining, waiting := c.remainingLocked()
	return waiting && remaining <= 0
}

func (c *Today) Render() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	header := c.header()
	if c.payload == nil {
		c.rendered = 0
		if c.loadErr != "" {
			return views.Stack(header, views.Banner(c.loadErr), views.Help(hints(c.actionsLocked())))
		}
		return views.Stack(header, views.MutedStyle.Render("Loading..."))
	}

	label, countdown := c.dateLabel()
	date := views.DateHeader(views.DateHeaderView{
		Label:      label,
		Date:       c.payload.Date,
		PromptText: c.payload.Prompt.PromptText,
		Countdown:  countdown,
	})

	var body string
	if c.payload.UserResponse == nil {
		c.rendered = 0
		input := c.draftView
		if input == "" {
			input = views.Sanitize(c.draft)
		}
		body = views.Composer(views.ComposerView{
			Input:      input,
			Length:     views.Length(c.draft),
			Submitting: c.submitting,
			Error:      c.formErr,
			Banner:     c.banner,
		})
	} else {
		responses := c.payload.Prompt.Responses
		c.rendered = len(responses)
		body = views.Stack(
			views.ResponseList(views.ResponseListView{
				Responses: responses,
				ViewerID:  c.viewerID(c.payload.UserResponse),
				Editable:  c.payload.Prompt.IsEditable,
				Editing:   c.edit.active,
				Editor:    c.edit.editorView(),
				EditError: c.edit.err,
				Now:       c.deps.now(),
				EmptyIcon: "☕",
				EmptyText: views.EmptyToday,
			}),
			views.Banner(c.banner),
		)
	}

	return views.Stack(header, date, body, views.Help(hints(c.actionsLocked())))
}

func (c *Today) Teardown() {
	c.poller.Stop()
}

func (c *Today) Fields() []Field {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.payload == nil {
		return nil
	}
	if c.payload.UserResponse == nil {
		return []Field{{
			Name:        fieldResponse,
			Label:       "Your answer",
			Value:       c.draft,
			Placeholder: "Type your answer...",
			Multiline:   true,
			Limit:       models.ResponseMaxLength,
		}}
	}
	if c.edit.active {
		return []Field{c.edit.field()}
	}
	return nil
}

func (c *Today) SetField(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch name {
	case fieldResponse:
		c.draft = value
	case fieldEdit:
		c.edit.text = value
	}
}

func (c *Today) SetFieldView(name, view string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch name {
	case fieldResponse:
		c.draftView = view
	case fieldEdit:
		c.edit.view = view
	}
}

func (c *Today) Actions() []Action {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actionsLocked()
}

func (c *Today) actionsLocked() []Action {
	var actions []Action
	if c.payload != nil {
		switch {
		case c.payload.UserResponse == nil:
			label := views.SubmitLabel
			if c.submitting {
				label = views.SubmittingLabel
			}
			actions = append(actions, Action{Key: "ctrl+s", Label: label, Name: "submit"})
		case c.payload.Prompt.IsEditable && c.edit.active:
			actions = append(actions, c.edit.actions()...)
		case c.payload.Prompt.IsEditable:
			actions = append(actions, Action{Key: "ctrl+e", Label: "Edit", Name: "edit"})
		}
	}
	actions = append(actions, Action{Key: "ctrl+r", Label: "Refresh", Name: "refresh"})
	return append(actions, navActions()...)
}

func (c *Today) Do(ctx context.Context, action string) (Result, error) {
	if res, ok := c.doNav(ctx, action); ok {
		c.poller.Pause()
		return res, nil
	}

	switch action {
	case "submit":
		return Result{}, c.submit(ctx)
	case "edit":
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.payload == nil || c.payload.UserResponse == nil || !c.payload.Prompt.IsEditable {
			return Result{}, nil
		}
		c.edit.start(c.payload.UserResponse.ResponseText)
		return Result{}, nil
	case "cancel-edit":
		c.mu.Lock()
		defer c.mu.Unlock()
		c.edit.cancel()
		return Result{}, nil
	case "save-edit":
		return Result{}, c.saveEdit(ctx)
	case "refresh":
		return Result{}, c.Load(ctx)
	}
	return Result{}, nil
}

func (c *Today) submit(ctx context.Context) error {
	c.mu.Lock()
	if c.submitting || c.payload == nil || c.payload.UserResponse != nil {
		c.mu.Unlock()
		return nil
	}
	c.formErr = ""
	c.banner = ""
	text, err := validateResponse(fieldResponse, c.draft)
	if err != nil {
		c.formErr = err.Error()
		c.mu.Unlock()
		return err
	}
	c.submitting = true
	c.mu.Unlock()

	if _, err := c.deps.API.SubmitResponse(ctx, text); err != nil {
		c.mu.Lock()
		c.submitting = false
		c.banner = errorMessage(err)
		c.mu.Unlock()
		slog.Warn("submit response failed", "error", err)
		return err
	}

	slog.Info("response submitted", "length", views.Length(text))
	return c.Load(ctx)
}

func (c *Today) saveEdit(ctx context.Context) error {
	c.mu.Lock()
	if !c.edit.active || c.payload == nil {
		c.mu.Unlock()
		return nil
	}
	promptID := c.payload.Prompt.ID
	text := c.edit.text
	c.edit.err = ""
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
	slog.Info("response edited", "prompt_id", promptID)
	return c.Load(ctx)
}
