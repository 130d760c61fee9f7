// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/danielhkuo/kitchen-table/models"
)

func (c *Client) post(ctx context.Context, endpoint string, body interface{}) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	if err := c.Call(ctx, endpoint, Options{Method: http.MethodPost, Body: body}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) put(ctx context.Context, endpoint string, body interface{}) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	if err := c.Call(ctx, endpoint, Options{Method: http.MethodPut, Body: body}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Account lifecycle

func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (*models.MessageResponse, error) {
	return c.post(ctx, "/api/auth/signup", req)
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.MessageResponse, error) {
	return c.post(ctx, "/api/auth/login", req)
}

func (c *Client) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (*models.MessageResponse, error) {
	return c.post(ctx, "/api/auth/forgot-password", req)
}

func (c *Client) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (*models.MessageResponse, error) {
	return c.post(ctx, "/api/auth/reset-password", req)
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.post(ctx, "/api/auth/logout", nil)
	return err
}

// Tables

func (c *Client) CreateTable(ctx context.Context, req models.CreateTableRequest) (*models.MessageResponse, error) {
	return c.post(ctx, "/api/table/create", req)
}

func (c *Client) JoinTable(ctx context.Context, req models.JoinTableRequest) (*models.MessageResponse, error) {
	return c.post(ctx, "/api/table/join", req)
}

func (c *Client) TableInfo(ctx context.Context) (*models.TableInfo, error) {
	var info models.TableInfo
	if err := c.Call(ctx, "/api/table/info", Options{}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) UpdateTableSettings(ctx context.Context, req models.TableSettingsRequest) (*models.MessageResponse, error) {
	return c.put(ctx, "/api/table/settings", req)
}

func (c *Client) LeaveTable(ctx context.Context) (*models.MessageResponse, error) {
	return c.post(ctx, "/api/table/leave", nil)
}

func (c *Client) ListTables(ctx context.Context) (*models.TableList, error) {
	var list models.TableList
	if err := c.Call(ctx, "/api/table/list", Options{}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) SwitchTable(ctx context.Context, tableID int64) (*models.MessageResponse, error) {
	return c.post(ctx, "/api/table/switch", models.SwitchTableRequest{TableID: tableID})
}

// Users

func (c *Client) DeleteAccount(ctx context.Context, password string) (*models.MessageResponse, error) {
	return c.post(ctx, "/api/user/delete", models.DeleteAccountRequest{Password: password})
}

func (c *Client) UpdateProfile(ctx context.Context, displayName string) (*models.MessageResponse, error) {
	return c.put(ctx, "/api/user/profile", models.ProfileRequest{DisplayName: displayName})
}

// Prompts and responses

func (c *Client) TodayPrompt(ctx context.Context) (*models.TodayPayload, error) {
	var payload models.TodayPayload
	if err := c.Call(ctx, "/api/prompt/today", Options{}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) YesterdayPrompt(ctx context.Context) (*models.DatePayload, error) {
	var payload models.DatePayload
	if err := c.Call(ctx, "/api/prompt/yesterday", Options{}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DatePrompt fetches the prompt for an ISO YYYY-MM-DD date
func (c *Client) DatePrompt(ctx context.Context, date string) (*models.DatePayload, error) {
	var payload models.DatePayload
	if err := c.Call(ctx, "/api/prompt/date/"+url.PathEscape(date), Options{}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) SubmitResponse(ctx context.Context, text string) (*models.MessageResponse, error) {
	return c.post(ctx, "/api/response/submit", models.SubmitResponseRequest{Response: text})
}

func (c *Client) EditResponse(ctx context.Context, promptID int64, text string) (*models.MessageResponse, error) {
	return c.put(ctx, "/api/response/edit", models.EditResponseRequest{PromptID: promptID, Response: text})
}

func (c *Client) PollResponses(ctx context.Context) (*models.PollPayload, error) {
	var payload models.PollPayload
	if err := c.Call(ctx, "/api/response/poll", Options{}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
