// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package controllers

import (
	"context"
	"strings"

	"github.com/danielhkuo/kitchen-table/apiclient"
	"github.com/danielhkuo/kitchen-table/models"
	"github.com/danielhkuo/kitchen-table/views"
)

const fieldEdit = "edit"

// Validation messages for response text
const (
	msgEmptyResponse = "Please enter a response"
	msgLongResponse  = "Response must be 500 characters or less"
)

func validateResponse(field, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &ValidationError{Field: field, Message: msgEmptyResponse}
	}
	if views.Length(text) > models.ResponseMaxLength {
		return "", &ValidationError{Field: field, Message: msgLongResponse}
	}
	return text, nil
}

// editor is the edit-in-place state for the viewer's own response
type editor struct {
	active   bool
	original string
	text     string
	view     string
	err      string
}

func (e *editor) start(original string) {
	e.active = true
	e.original = original
	e.text = original
	e.view = ""
	e.err = ""
}

// cancel drops the draft. The list is drawn from the payload again, so the
// original text comes back untouched.
func (e *editor) cancel() {
	*e = editor{}
}

func (e *editor) field() Field {
	return Field{
		Name:      fieldEdit,
		Label:     "Edit your answer",
		Value:     e.text,
		Multiline: true,
		Limit:     models.ResponseMaxLength,
	}
}

func (e *editor) actions() []Action {
	return []Action{
		{Key: "ctrl+s", Label: "Save", Name: "save-edit"},
		{Key: "esc", Label: "Cancel", Name: "cancel-edit"},
	}
}

// editorView is what replaces the response text while editing
func (e *editor) editorView() string {
	if e.view != "" {
		return e.view
	}
	return views.CardStyle.Render(views.Sanitize(e.text))
}

// saveEdit sends exactly one edit call keyed by promptID
func saveEdit(ctx context.Context, api *apiclient.Client, promptID int64, text string) error {
	text, err := validateResponse(fieldEdit, text)
	if err != nil {
		return err
	}
	_, err = api.EditResponse(ctx, promptID, text)
	return err
}
