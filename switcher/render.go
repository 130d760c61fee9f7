// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package switcher

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/danielhkuo/kitchen-table/models"
	"github.com/danielhkuo/kitchen-table/views"
)

var dropdownStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#C2703D")).
	Padding(0, 1).
	Width(40)

// CurrentName returns the name shown on the trigger
func (s Snapshot) CurrentName() string {
	for _, t := range s.Tables {
		if t.IsCurrent {
			return t.Name
		}
	}
	for _, t := range s.Tables {
		if t.ID == s.CurrentID {
			return t.Name
		}
	}
	return "Select Table"
}

// Render projects a snapshot. Closed renders only the trigger.
func Render(s Snapshot) string {
	arrow := "▼"
	if s.State == Open {
		arrow = "▲"
	}
	trigger := views.KeyStyle.Render("ctrl+t") + " " +
		views.TitleStyle.Render("🏠 "+views.Sanitize(s.CurrentName())+" "+arrow)

	if s.State == Closed {
		if s.Error != "" {
			return lipgloss.JoinVertical(lipgloss.Left, trigger, views.InlineError(s.Error))
		}
		return trigger
	}

	item := func(i int, text string) string {
		marker := "  "
		if i == s.Cursor {
			marker = views.KeyStyle.Render("› ")
		}
		return marker + text
	}

	lines := []string{views.LabelStyle.Render("YOUR TABLES")}
	for i, t := range s.Tables {
		role := "Member"
		if t.Role == models.RoleOwner {
			role = "Owner"
		}
		text := views.AuthorStyle.Render(views.Sanitize(t.Name)) + " " + views.MutedStyle.Render(role)
		if t.IsCurrent || (s.CurrentID != 0 && t.ID == s.CurrentID) {
			text += " " + views.SuccessStyle.Render("✓")
		}
		lines = append(lines, item(i, text))
	}
	lines = append(lines,
		views.MutedStyle.Render(strings.Repeat("─", 36)),
		item(len(s.Tables), "+ Create New Table"),
		item(len(s.Tables)+1, "🔗 Join Table"),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		trigger,
		dropdownStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)),
		views.Help([]views.KeyHint{{Key: "↑/↓", Label: "move"}, {Key: "enter", Label: "select"}, {Key: "esc", Label: "close"}}),
	)
}
