// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/danielhkuo/kitchen-table/controllers"
	"github.com/danielhkuo/kitchen-table/switcher"
	"github.com/danielhkuo/kitchen-table/views"
)

const (
	// maxRedirects bounds a chain of load redirects between user inputs
	maxRedirects = 5
	tickInterval = time.Second
)

var ErrTooManyRedirects = errors.New("too many redirects")

// Resolver turns a route into a fresh controller
type Resolver interface {
	Resolve(path string) (controllers.Controller, error)
}

type Config struct {
	Resolver Resolver
	// Tables backs the table switcher; nil hides it
	Tables switcher.API
	// Start is the first route opened, "/" by default
	Start string
	// Blink enables cursor blinking
	Blink bool
}

type (
	loadedMsg struct {
		gen int
		err error
	}
	actionMsg struct {
		gen int
		res controllers.Result
		err error
	}
	switchMsg struct {
		gen int
		out switcher.Outcome
		err error
	}
	// redrawMsg asks for a render after background work
	redrawMsg struct{}
	tickMsg   time.Time
)

// Model is the Bubble Tea model. It owns exactly one page controller at a
// time; navigating tears the old one down before the new one loads.
type Model struct {
	ctx context.Context
	cfg Config

	route      string
	page       controllers.Controller
	gen        int
	loading    bool
	refreshing bool // in-place reload; the page stays interactive
	busy       bool
	redirects  int
	err        string

	tables  *switcher.Switcher
	widgets []widget
	focus   int
	width   int

	start    tea.Cmd
	quitting bool
}

// New resolves the start route. Loading begins in Init.
func New(ctx context.Context, cfg Config) Model {
	if cfg.Start == "" {
		cfg.Start = controllers.RouteHome
	}
	m, start := Model{ctx: ctx, cfg: cfg}.open(cfg.Start)
	m.start = start
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.start, tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Route is the route of the current page
func (m Model) Route() string {
	return m.route
}

func (m Model) onTablePage() bool {
	return m.route == controllers.RouteToday || strings.HasPrefix(m.route, controllers.RouteToday+"/")
}

// open tears down the current page and resolves route. The returned
// command loads the new page.
func (m Model) open(route string) (Model, tea.Cmd) {
	if m.page != nil {
		m.page.Teardown()
	}
	m.gen++
	m.page = nil
	m.widgets = nil
	m.focus = 0
	m.busy = false
	m.loading = false
	m.refreshing = false
	m.tables = nil

	page, err := m.cfg.Resolver.Resolve(route)
	if err != nil {
		slog.Warn("unknown route", "route", route, "error", err)
		m.err = "Page not found: " + route
		if route == controllers.RouteHome {
			return m, nil
		}
		route = controllers.RouteHome
		if page, err = m.cfg.Resolver.Resolve(route); err != nil {
			return m, nil
		}
	}

	m.route = route
	m.page = page
	m.loading = true
	if m.cfg.Tables != nil {
		m.tables = switcher.New(m.cfg.Tables)
	}
	slog.Debug("opening page", "route", route)

	return m, m.load()
}

// load runs the current page's Load for the current generation
func (m Model) load() tea.Cmd {
	gen, ctx, page := m.gen, m.ctx, m.page
	return func() tea.Msg {
		return loadedMsg{gen: gen, err: page.Load(ctx)}
	}
}

// navigate follows a user-initiated route change
func (m Model) navigate(route string) (Model, tea.Cmd) {
	m.redirects = 0
	m.err = ""
	return m.open(route)
}

// redirect follows a route change requested by a page load
func (m Model) redirect(route string) (Model, tea.Cmd) {
	m.redirects++
	if m.redirects > maxRedirects {
		slog.Error("redirect loop", "route", route, "error", ErrTooManyRedirects)
		m.err = "Too many redirects"
		return m, nil
	}
	return m.open(route)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.pushViews()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		for i := range m.widgets {
			m.widgets[i].resize(msg.Width)
		}
		return m, nil

	case loadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		m.refreshing = false
		if to, ok := controllers.RedirectTarget(msg.err); ok {
			return m.redirect(to)
		}
		m.redirects = 0
		if msg.err != nil {
			slog.Warn("page load failed", "route", m.route, "error", msg.err)
		}
		return m, m.syncWidgets()

	case actionMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			slog.Debug("action failed", "route", m.route, "error", msg.err)
		}
		switch {
		case msg.res.Redirect != "":
			return m.navigate(msg.res.Redirect)
		case msg.res.Reload:
			return m.navigate(m.route)
		}
		return m, m.syncWidgets()

	case switchMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			slog.Warn("table switch failed", "error", msg.err)
			return m, nil
		}
		switch {
		case msg.out.Redirect != "":
			return m.navigate(msg.out.Redirect)
		case msg.out.Reload:
			return m.navigate(m.route)
		}
		return m, nil

	case redrawMsg:
		return m, m.syncWidgets()

	case tickMsg:
		// the countdown is recomputed on render; a finished one reloads
		if page, ok := m.page.(controllers.Expiring); ok && !m.loading && !m.refreshing && page.Expired() {
			slog.Info("countdown finished, reloading", "route", m.route)
			m.refreshing = true
			return m, tea.Batch(m.load(), tick())
		}
		return m, tick()
	}

	// cursor blinks and other widget messages
	if m.focus < len(m.widgets) {
		return m, m.widgets[m.focus].update(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.quitting = true
		if m.page != nil {
			m.page.Teardown()
		}
		return m, tea.Quit
	}

	if m.tables != nil && m.onTablePage() && !m.loading {
		if key == "ctrl+t" {
			tables, ctx := m.tables, m.ctx
			return m, func() tea.Msg {
				tables.Toggle(ctx)
				return redrawMsg{}
			}
		}
		if m.tables.IsOpen() {
			return m.tableKey(key)
		}
	}

	page, ok := m.page.(controllers.Interactive)
	if !ok || m.loading {
		return m, nil
	}
	for _, a := range page.Actions() {
		if a.Key == key {
			return m.act(page, a.Name)
		}
	}

	switch key {
	case "tab":
		return m.moveFocus(1)
	case "shift+tab":
		return m.moveFocus(-1)
	}
	return m.input(page, msg)
}

// tableKey drives the open switcher; it captures every key
func (m Model) tableKey(key string) (Model, tea.Cmd) {
	switch key {
	case "up", "k":
		m.tables.MoveCursor(-1)
	case "down", "j":
		m.tables.MoveCursor(1)
	case "esc":
		m.tables.Close()
	case "enter":
		if m.busy {
			return m, nil
		}
		m.busy = true
		tables, ctx, gen := m.tables, m.ctx, m.gen
		return m, func() tea.Msg {
			out, err := tables.Activate(ctx)
			return switchMsg{gen: gen, out: out, err: err}
		}
	}
	return m, nil
}

// act runs a page action off the update loop. One action runs at a time.
func (m Model) act(page controllers.Interactive, name string) (Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.busy = true
	gen, ctx := m.gen, m.ctx
	return m, func() tea.Msg {
		res, err := page.Do(ctx, name)
		return actionMsg{gen: gen, res: res, err: err}
	}
}

// input sends a key to the focused widget and copies the value back
func (m Model) input(page controllers.Interactive, msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.focus >= len(m.widgets) {
		return m, nil
	}
	w := &m.widgets[m.focus]
	cmd := w.update(msg)
	page.SetField(w.field.Name, w.value())

	// the controller may have normalized what was typed
	for _, f := range page.Fields() {
		if f.Name == w.field.Name && f.Value != w.value() {
			w.setValue(f.Value)
		}
	}
	return m, cmd
}

func (m Model) moveFocus(delta int) (Model, tea.Cmd) {
	n := len(m.widgets)
	if n < 2 {
		return m, nil
	}
	m.focus = ((m.focus+delta)%n + n) % n
	return m, m.applyFocus()
}

// syncWidgets rebuilds the widget list from the page's current fields,
// keeping widgets whose field survived and the focus on the same field.
func (m *Model) syncWidgets() tea.Cmd {
	page, ok := m.page.(controllers.Interactive)
	if !ok {
		m.widgets = nil
		m.focus = 0
		return nil
	}

	var focused string
	if m.focus < len(m.widgets) {
		focused = m.widgets[m.focus].field.Name
	}
	prev := make(map[string]widget, len(m.widgets))
	for _, w := range m.widgets {
		prev[w.field.Name] = w
	}

	fields := page.Fields()
	widgets := make([]widget, 0, len(fields))
	focus := 0
	for i, f := range fields {
		w, ok := prev[f.Name]
		if !ok || w.field.Multiline != f.Multiline || w.field.Secret != f.Secret {
			w = newWidget(f, m.cfg.Blink, m.width)
		}
		w.field = f
		if w.value() != f.Value {
			w.setValue(f.Value)
		}
		if f.Name == focused {
			focus = i
		}
		widgets = append(widgets, w)
	}
	m.widgets = widgets
	m.focus = focus
	return m.applyFocus()
}

func (m *Model) applyFocus() tea.Cmd {
	var cmds []tea.Cmd
	for i := range m.widgets {
		if i == m.focus {
			cmds = append(cmds, m.widgets[i].focus())
		} else {
			m.widgets[i].blur()
		}
	}
	return tea.Batch(cmds...)
}

// pushViews hands the page the live rendering of each widget
func (m *Model) pushViews() {
	page, ok := m.page.(controllers.Interactive)
	if !ok {
		return
	}
	for i := range m.widgets {
		page.SetFieldView(m.widgets[i].field.Name, m.widgets[i].view())
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var blocks []string
	if m.err != "" {
		blocks = append(blocks, views.Banner(m.err))
	}
	if m.tables != nil && m.onTablePage() {
		blocks = append(blocks, switcher.Render(m.tables.Snapshot()))
	}
	if m.page != nil {
		blocks = append(blocks, m.page.Render())
	}

	var hints []views.KeyHint
	if len(m.widgets) > 1 {
		hints = append(hints, views.KeyHint{Key: "tab", Label: "Next field"})
	}
	if m.tables != nil && m.onTablePage() {
		hints = append(hints, views.KeyHint{Key: "ctrl+t", Label: "Switch table"})
	}
	hints = append(hints, views.KeyHint{Key: "ctrl+c", Label: "Quit"})
	blocks = append(blocks, views.Help(hints))

	return views.Stack(blocks...)
}

// Notifier delivers background redraw requests (poll reloads) to a running
// program. Notify before Attach is a no-op.
type Notifier struct {
	mu      sync.Mutex
	program *tea.Program
}

func (n *Notifier) Attach(p *tea.Program) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.program = p
}

func (n *Notifier) Notify() {
	n.mu.Lock()
	p := n.program
	n.mu.Unlock()
	if p != nil {
		p.Send(redrawMsg{})
	}
}

// RenderOnce loads route, following load redirects, and returns a single
// render of the page it lands on.
func RenderOnce(ctx context.Context, r Resolver, route string) (string, error) {
	for i := 0; i <= maxRedirects; i++ {
		page, err := r.Resolve(route)
		if err != nil {
			return "", err
		}
		err = page.Load(ctx)
		if to, ok := controllers.RedirectTarget(err); ok {
			page.Teardown()
			route = to
			continue
		}
		if err != nil {
			slog.Warn("page load failed", "route", route, "error", err)
		}
		out := page.Render()
		page.Teardown()
		return out, nil
	}
	return "", ErrTooManyRedirects
}
