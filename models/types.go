// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Member roles
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Limits shared with the server
const (
	ResponseMaxLength = 500
	TableNameMin      = 3
	TableNameMax      = 50
	DefaultPromptTime = "17:00"
)

// Request types

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Username may also hold an email address.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type CreateTableRequest struct {
	Name       string `json:"name"`
	PromptTime string `json:"prompt_time"`
}

type JoinTableRequest struct {
	InviteCode string `json:"invite_code"`
}

type TableSettingsRequest struct {
	Name       string `json:"name"`
	PromptTime string `json:"prompt_time"`
}

type SwitchTableRequest struct {
	TableID int64 `json:"table_id"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type ProfileRequest struct {
	DisplayName string `json:"display_name"`
}

type SubmitResponseRequest struct {
	Response string `json:"response"`
}

type EditResponseRequest struct {
	PromptID int64  `json:"prompt_id"`
	Response string `json:"response"`
}

// Response types

// MessageResponse is the generic success body. Redirect is set when the
// server wants the client to navigate somewhere else.
type MessageResponse struct {
	Message    string `json:"message,omitempty"`
	Redirect   string `json:"redirect,omitempty"`
	ResetToken string `json:"reset_token,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// TodayPayload is returned by GET /api/prompt/today.
// SecondsUntilNextPrompt is only present while the next prompt period has
// not started yet.
type TodayPayload struct {
	Prompt                 Prompt    `json:"prompt"`
	UserResponse           *Response `json:"user_response"`
	Date                   string    `json:"date"`
	SecondsUntilNextPrompt *int64    `json:"seconds_until_next_prompt,omitempty"`
}

// DatePayload is returned by GET /api/prompt/yesterday and
// GET /api/prompt/date/{date}.
type DatePayload struct {
	Prompt       Prompt     `json:"prompt"`
	Responses    []Response `json:"responses"`
	UserResponse *Response  `json:"user_response"`
	Date         string     `json:"date"`
}

// AllResponses prefers the top-level list and falls back to the one nested
// in the prompt.
func (p DatePayload) AllResponses() []Response {
	if len(p.Responses) > 0 {
		return p.Responses
	}
	return p.Prompt.Responses
}

// PollPayload is returned by GET /api/response/poll. A viewer who has not
// answered yet gets only an empty new_responses list.
type PollPayload struct {
	Responses    []Response `json:"responses,omitempty"`
	Count        int        `json:"count,omitempty"`
	NewResponses []Response `json:"new_responses,omitempty"`
}

// ResponseCount returns how many responses the server currently holds.
func (p PollPayload) ResponseCount() int {
	if n := len(p.Responses); n > p.Count {
		return n
	}
	return p.Count
}

type TableInfo struct {
	Table   Table    `json:"table"`
	User    *User    `json:"user,omitempty"`
	Members []Member `json:"members"`
}

type TableList struct {
	Tables         []TableSummary `json:"tables"`
	CurrentTableID int64          `json:"current_table_id"`
}

// Domain types

type Prompt struct {
	ID               int64      `json:"id"`
	TableID          int64      `json:"table_id,omitempty"`
	PromptText       string     `json:"prompt_text"`
	PromptDate       string     `json:"prompt_date,omitempty"`
	IsCustom         bool       `json:"is_custom,omitempty"`
	ResponseCount    int        `json:"response_count"`
	IsEditable       bool       `json:"is_editable"`
	UserHasResponded bool       `json:"user_has_responded,omitempty"`
	Responses        []Response `json:"responses"`
}

type Response struct {
	ID           int64      `json:"id"`
	PromptID     int64      `json:"prompt_id,omitempty"`
	UserID       int64      `json:"user_id"`
	DisplayName  string     `json:"display_name"`
	Username     string     `json:"username,omitempty"`
	ResponseText string     `json:"response_text"`
	CreatedAt    time.Time  `json:"created_at"`
	EditedAt     *time.Time `json:"edited_at,omitempty"`
}

type Table struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	InviteCode string `json:"invite_code"`
	PromptTime string `json:"prompt_time"`
	IsOwner    bool   `json:"is_owner"`
	Role       string `json:"role,omitempty"`
}

// TableSummary is one entry of the switcher's table list.
type TableSummary struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	IsCurrent  bool   `json:"is_current"`
	InviteCode string `json:"invite_code,omitempty"`
}

type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
}

type Member struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}
