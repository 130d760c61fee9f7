// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package controllers

import (
	"context"
)

// Home is "/": it only decides where to go
type Home struct {
	deps Deps
}

func NewHome(deps Deps) *Home {
	return &Home{deps: deps}
}

// Load always redirects: to the table with a session, to login without
func (h *Home) Load(ctx context.Context) error {
	if h.deps.Viewer != nil && h.deps.Viewer.HasSession() {
		return &Redirect{To: RouteToday}
	}
	return &Redirect{To: RouteLogin}
}

func (h *Home) Render() string {
	return ""
}

func (h *Home) Teardown() {}
