// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package controllers

import (
	"context"
	"log/slog"
	"sync"

	"github.com/danielhkuo/kitchen-table/models"
	"github.com/danielhkuo/kitchen-table/views"
)

// tablePage is shared by the pages under /table
type tablePage struct {
	deps   Deps
	active string
	info   *models.TableInfo
}

// fetchWithHeader loads table info and the page payload concurrently. Only
// the page error is returned; a header failure is logged.
func (p *tablePage) fetchWithHeader(ctx context.Context, page func(context.Context) error) (*models.TableInfo, error) {
	var (
		wg   sync.WaitGroup
		info *models.TableInfo
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		i, err := p.deps.API.TableInfo(ctx)
		if err != nil {
			slog.Warn("failed to load table info", "error", err)
			return
		}
		info = i
	}()

	err := page(ctx)
	wg.Wait()
	return info, err
}

func (p *tablePage) header() string {
	var name string
	if p.info != nil {
		name = p.info.Table.Name
	}
	return views.Header(views.HeaderView{TableName: name, Active: p.active})
}

// viewerID prefers the payload's own response, then table info, then the
// local session.
func (p *tablePage) viewerID(own *models.Response) int64 {
	if own != nil && own.UserID != 0 {
		return own.UserID
	}
	if p.info != nil && p.info.User != nil && p.info.User.ID != 0 {
		return p.info.User.ID
	}
	return p.deps.viewerID()
}

func navActions() []Action {
	return []Action{
		{Key: "ctrl+g", Label: "Today", Name: "nav-today"},
		{Key: "ctrl+y", Label: "Yesterday", Name: "nav-yesterday"},
		{Key: "ctrl+o", Label: "Settings", Name: "nav-settings"},
		{Key: "ctrl+q", Label: "Log out", Name: "logout"},
	}
}

// doNav handles the actions every table page shares
func (p *tablePage) doNav(ctx context.Context, action string) (Result, bool) {
	switch action {
	case "nav-today":
		return Result{Redirect: RouteToday}, true
	case "nav-yesterday":
		return Result{Redirect: RouteYesterday}, true
	case "nav-settings":
		return Result{Redirect: RouteSettings}, true
	case "logout":
		return Logout(ctx, p.deps), true
	}
	return Result{}, false
}

type sessionClearer interface {
	Clear() error
}

func clearSession(deps Deps) {
	if c, ok := deps.Viewer.(sessionClearer); ok {
		if err := c.Clear(); err != nil {
			slog.Warn("failed to clear session", "error", err)
		}
	}
}

// Logout ends the session. Failures are logged and navigation to the home
// route happens regardless.
func Logout(ctx context.Context, deps Deps) Result {
	if err := deps.API.Logout(ctx); err != nil {
		slog.Warn("logout failed", "error", err)
	}
	clearSession(deps)
	slog.Info("logged out")
	return Result{Redirect: RouteHome}
}
