// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package switcher

import (
	"context"
	"log/slog"
	"sync"

	"github.com/danielhkuo/kitchen-table/models"
)

// Routes offered below the table list
const (
	CreateRoute = "/create-table"
	JoinRoute   = "/join-table"
)

type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// API is the part of the client the switcher needs
type API interface {
	ListTables(ctx context.Context) (*models.TableList, error)
	SwitchTable(ctx context.Context, tableID int64) (*models.MessageResponse, error)
}

// Outcome tells the caller what to do after an activation
type Outcome struct {
	// Reload asks for a full page reload after a successful switch
	Reload   bool
	Redirect string
}

// Snapshot is the state Render projects
type Snapshot struct {
	State     State
	CurrentID int64
	Tables    []models.TableSummary
	Cursor    int
	Error     string
}

// Switcher is the table dropdown. It holds no reference to anything it is
// drawn into.
type Switcher struct {
	api API

	mu        sync.Mutex
	state     State
	loaded    bool
	currentID int64
	tables    []models.TableSummary
	cursor    int
	err       string
}

func New(api API) *Switcher {
	return &Switcher{api: api}
}

// Toggle opens or closes the menu. The table list is fetched on the first
// successful opening only; a failed fetch is logged and retried on the next.
func (s *Switcher) Toggle(ctx context.Context) {
	s.mu.Lock()
	if s.state == Open {
		s.state = Closed
		s.mu.Unlock()
		return
	}
	s.state = Open
	s.err = ""
	loaded := s.loaded
	s.mu.Unlock()

	if loaded {
		return
	}
	s.load(ctx)
}

func (s *Switcher) load(ctx context.Context) {
	list, err := s.api.ListTables(ctx)
	if err != nil {
		slog.Warn("failed to load tables", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = list.Tables
	s.currentID = list.CurrentTableID
	s.loaded = true
	s.cursor = 0
	for i, t := range s.tables {
		if t.IsCurrent || t.ID == s.currentID {
			s.cursor = i
			break
		}
	}
}

// Close handles a click (or Esc) outside the menu
func (s *Switcher) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Closed
}

func (s *Switcher) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Open
}

// MoveCursor moves over the tables and the two trailing actions, wrapping
func (s *Switcher) MoveCursor(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.tables) + 2
	s.cursor = ((s.cursor+delta)%n + n) % n
}

// Select switches to tableID. Beginning a switch closes the menu. Picking
// the current table makes no network call.
func (s *Switcher) Select(ctx context.Context, tableID int64) (Outcome, error) {
	s.mu.Lock()
	s.state = Closed
	current := s.currentID
	s.mu.Unlock()

	if tableID == current {
		return Outcome{}, nil
	}

	if _, err := s.api.SwitchTable(ctx, tableID); err != nil {
		s.mu.Lock()
		s.err = "Error switching tables: " + err.Error()
		s.mu.Unlock()
		return Outcome{}, err
	}

	slog.Info("switched table", "from", current, "to", tableID)
	return Outcome{Reload: true}, nil
}

// Activate acts on the item under the cursor
func (s *Switcher) Activate(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	cursor, n := s.cursor, len(s.tables)
	var id int64
	if cursor < n {
		id = s.tables[cursor].ID
	}
	s.mu.Unlock()

	switch cursor {
	case n:
		s.Close()
		return Outcome{Redirect: CreateRoute}, nil
	case n + 1:
		s.Close()
		return Outcome{Redirect: JoinRoute}, nil
	default:
		return s.Select(ctx, id)
	}
}

func (s *Switcher) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:     s.state,
		CurrentID: s.currentID,
		Tables:    append([]models.TableSummary(nil), s.tables...),
		Cursor:    s.cursor,
		Error:     s.err,
	}
}
