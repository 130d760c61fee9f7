// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/danielhkuo/kitchen-table/controllers"
)

// ErrNotFound is returned for a path no page is registered under
var ErrNotFound = errors.New("page not found")

// Factory builds the controller for one matched route
type Factory func(deps controllers.Deps, vars map[string]string) controllers.Controller

type page struct {
	name    string
	path    string
	factory Factory
}

// pages is the whole route table, one entry per page
var pages = []page{
	{"home", controllers.RouteHome, func(d controllers.Deps, _ map[string]string) controllers.Controller {
		return controllers.NewHome(d)
	}},
	{"login", controllers.RouteLogin, func(d controllers.Deps, _ map[string]string) controllers.Controller {
		return controllers.NewLogin(d)
	}},
	{"signup", controllers.RouteSignup, func(d controllers.Deps, _ map[string]string) controllers.Controller {
		return controllers.NewSignup(d)
	}},
	{"forgot-password", controllers.RouteForgot, func(d controllers.Deps, _ map[string]string) controllers.Controller {
		return controllers.NewForgotPassword(d)
	}},
	{"reset-password", controllers.RouteReset + "{token}", func(d controllers.Deps, v map[string]string) controllers.Controller {
		return controllers.NewResetPassword(d, v["token"])
	}},
	{"create-table", controllers.RouteCreateTable, func(d controllers.Deps, _ map[string]string) controllers.Controller {
		return controllers.NewCreateTable(d)
	}},
	{"join-table", controllers.RouteJoinTable, func(d controllers.Deps, _ map[string]string) controllers.Controller {
		return controllers.NewJoinTable(d)
	}},
	{"today", controllers.RouteToday, func(d controllers.Deps, _ map[string]string) controllers.Controller {
		return controllers.NewToday(d)
	}},
	{"yesterday", controllers.RouteYesterday, func(d controllers.Deps, _ map[string]string) controllers.Controller {
		return controllers.NewYesterday(d)
	}},
	{"history", controllers.RouteHistory + "{date}", func(d controllers.Deps, v map[string]string) controllers.Controller {
		return controllers.NewHistory(d, v["date"])
	}},
	{"settings", controllers.RouteSettings, func(d controllers.Deps, _ map[string]string) controllers.Controller {
		return controllers.NewSettings(d)
	}},
}

// Router maps page paths to controllers. Matching is done once per
// navigation; the chosen controller owns the page until the next one.
type Router struct {
	deps      controllers.Deps
	mux       *mux.Router
	factories map[string]Factory
}

func NewRouter(deps controllers.Deps) *Router {
	r := &Router{
		deps:      deps,
		mux:       mux.NewRouter(),
		factories: make(map[string]Factory, len(pages)),
	}
	for _, p := range pages {
		r.mux.NewRoute().Path(p.path).Name(p.name)
		r.factories[p.name] = p.factory
	}
	return r
}

// Resolve returns a fresh, unloaded controller for path. Query strings and
// fragments are ignored.
func (r *Router) Resolve(path string) (controllers.Controller, error) {
	u, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	req := &http.Request{Method: http.MethodGet, URL: &url.URL{Path: u.Path}}

	var match mux.RouteMatch
	if !r.mux.Match(req, &match) || match.Route == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	factory, ok := r.factories[match.Route.GetName()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return factory(r.deps, match.Vars), nil
}

// URL builds the path of a named route, e.g. URL("history", "date", "2025-10-16")
func (r *Router) URL(name string, pairs ...string) (string, error) {
	route := r.mux.Get(name)
	if route == nil {
		return "", fmt.Errorf("%w: route %q", ErrNotFound, name)
	}
	u, err := route.URLPath(pairs...)
	if err != nil {
		return "", err
	}
	return u.Path, nil
}

// Names lists the registered route names in registration order
func (r *Router) Names() []string {
	names := make([]string, len(pages))
	for i, p := range pages {
		names[i] = p.name
	}
	return names
}
