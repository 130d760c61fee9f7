// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/danielhkuo/kitchen-table/models"
)

// Nav tabs shown in the table header
const (
	TabToday     = "today"
	TabYesterday = "yesterday"
	TabSettings  = "settings"
)

// Empty state texts
const (
	EmptyToday     = "You're the first one here today!"
	EmptyYesterday = "No one answered yesterday's question"
	EmptyDay       = "No one answered this day's question"
	NoPrompt       = "No prompt available for this day"
)

// Button labels of the composer
const (
	SubmitLabel     = "Share your answer"
	SubmittingLabel = "Sharing..."
)

// KeyHint is one key binding shown in a help line
type KeyHint struct {
	Key   string
	Label string
}

// Help renders key hints as a single muted line
func Help(hints []KeyHint) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, KeyStyle.Render(h.Key)+" "+MutedStyle.Render(h.Label))
	}
	return strings.Join(parts, MutedStyle.Render(" • "))
}

// Banner renders a server error. Empty input renders nothing.
func Banner(message string) string {
	if message == "" {
		return ""
	}
	return BannerStyle.Render(Sanitize(message))
}

// Notice renders a success message. Empty input renders nothing.
func Notice(message string) string {
	if message == "" {
		return ""
	}
	return NoticeStyle.Render(Sanitize(message))
}

// InlineError renders a validation error next to a field
func InlineError(message string) string {
	if message == "" {
		return ""
	}
	return ErrorStyle.Render("! " + message)
}

// EmptyState renders an icon and a line of text
func EmptyState(icon, text string) string {
	return lipgloss.JoinVertical(lipgloss.Center, icon, MutedStyle.Render(text))
}

// Stack joins non-empty blocks with a blank line between them
func Stack(blocks ...string) string {
	kept := blocks[:0:0]
	for _, b := range blocks {
		if b != "" {
			kept = append(kept, b)
		}
	}
	return strings.Join(kept, "\n\n")
}

type HeaderView struct {
	TableName string
	Active    string
	// Switcher is the rendered table switcher, drawn under the title
	Switcher string
}

// Header renders the shared table header
func Header(h HeaderView) string {
	name := h.TableName
	if name == "" {
		name = "Kitchen Table"
	}
	title := TitleStyle.Render("🏠 " + Sanitize(name))

	tab := func(key, label string) string {
		if key == h.Active {
			return ActiveTab.Render(label)
		}
		return InactiveTab.Render(label)
	}
	tabs := strings.Join([]string{
		tab(TabToday, "Today"),
		tab(TabYesterday, "Yesterday"),
		tab(TabSettings, "Settings"),
	}, "  ")

	return Stack(lipgloss.JoinVertical(lipgloss.Left, title, tabs), h.Switcher)
}

type DateHeaderView struct {
	Label      string
	Date       string
	PromptText string
	Countdown  string
}

// DateHeader renders the day label, date and the prompt question
func DateHeader(d DateHeaderView) string {
	lines := []string{LabelStyle.Render(d.Label)}
	if d.Date != "" {
		lines = append(lines, TextStyle.Render(FormatDate(d.Date)))
	}
	if d.Countdown != "" {
		lines = append(lines, WarningStyle.Render(d.Countdown))
	}
	block := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if d.PromptText == "" {
		return block
	}
	return Stack(block, PromptStyle.Render(Sanitize(d.PromptText)))
}

type ComposerView struct {
	// Input is the text area, either a live widget view or the draft text
	Input      string
	Length     int
	Submitting bool
	Error      string
	Banner     string
}

// Composer renders the response submission form
func Composer(c ComposerView) string {
	counter, level := CharCount(c.Length)
	switch level {
	case CounterWarning:
		counter = WarningStyle.Render(counter)
	case CounterFull:
		counter = ErrorStyle.Render(counter)
	default:
		counter = MutedStyle.Render(counter)
	}

	input := c.Input
	if input == "" {
		input = MutedStyle.Render("Type your answer...")
	}

	button := ButtonStyle.Render(SubmitLabel)
	if c.Submitting {
		button = DisabledStyle.Render(SubmittingLabel)
	}

	return Stack(
		lipgloss.JoinVertical(lipgloss.Left, CardStyle.Render(input), counter),
		InlineError(c.Error),
		Banner(c.Banner),
		button,
	)
}

type ResponseListView struct {
	Responses []models.Response
	ViewerID  int64
	// Editable enables the edit affordance on the viewer's own entry
	Editable bool
	// Editor replaces the viewer's text while an edit is in progress
	Editing   bool
	Editor    string
	EditError string
	Now       time.Time
	EmptyIcon string
	EmptyText string
}

// ResponseList renders every response for a day. The viewer's entry is
// labeled "You".
func ResponseList(v ResponseListView) string {
	if len(v.Responses) == 0 {
		return EmptyState(v.EmptyIcon, v.EmptyText)
	}

	cards := make([]string, 0, len(v.Responses))
	for _, r := range v.Responses {
		own := v.ViewerID != 0 && r.UserID == v.ViewerID

		author := AuthorStyle.Render(Sanitize(r.DisplayName))
		if own {
			author = YouStyle.Render("You")
		}
		meta := FormatTimeAgo(r.CreatedAt, v.Now)
		if r.EditedAt != nil {
			meta += " · " + FormatEdited(*r.EditedAt, v.Now)
		}
		head := author + "  " + MutedStyle.Render(meta)

		body := TextStyle.Render(Sanitize(r.ResponseText))
		var foot string
		if own && v.Editable {
			if v.Editing {
				body = v.Editor
				foot = lipgloss.JoinVertical(lipgloss.Left,
					InlineError(v.EditError),
					Help([]KeyHint{{"ctrl+s", "Save"}, {"esc", "Cancel"}}))
			} else {
				foot = Help([]KeyHint{{"ctrl+e", "Edit"}})
			}
		}

		card := lipgloss.JoinVertical(lipgloss.Left, head, body)
		if foot != "" {
			card = lipgloss.JoinVertical(lipgloss.Left, card, foot)
		}
		cards = append(cards, CardStyle.Render(card))
	}

	return Stack(MutedStyle.Render(FormatResponseCount(len(v.Responses))), strings.Join(cards, "\n"))
}

// HistoryNav renders previous/next links. An empty route hides the link.
func HistoryNav(prev, next string) string {
	var parts []string
	if prev != "" {
		parts = append(parts, KeyStyle.Render("ctrl+p")+" "+MutedStyle.Render("← Previous day"))
	}
	if next != "" {
		parts = append(parts, KeyStyle.Render("ctrl+n")+" "+MutedStyle.Render("Next day →"))
	}
	return strings.Join(parts, "    ")
}

// FieldView is one labeled form field
type FieldView struct {
	Label string
	// Input is the live widget view; when empty Value is drawn instead
	Input  string
	Value  string
	Secret bool
	Error  string
}

// Field renders a labeled input with its inline error
func Field(f FieldView) string {
	input := f.Input
	if input == "" {
		value := f.Value
		if f.Secret {
			value = strings.Repeat("•", Length(value))
		}
		input = CardStyle.Render(Sanitize(value))
	}
	lines := []string{LabelStyle.Render(f.Label), input}
	if f.Error != "" {
		lines = append(lines, InlineError(f.Error))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

type FormView struct {
	Title    string
	Subtitle string
	Fields   []FieldView
	Error    string
	Banner   string
	Notice   string
	Submit   string
	Busy     bool
	Links    []KeyHint
}

// Form renders an account or table form
func Form(f FormView) string {
	head := TitleStyle.Render(f.Title)
	if f.Subtitle != "" {
		head = lipgloss.JoinVertical(lipgloss.Left, head, MutedStyle.Render(f.Subtitle))
	}

	fields := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		fields = append(fields, Field(field))
	}

	button := ButtonStyle.Render(f.Submit)
	if f.Busy {
		button = DisabledStyle.Render(f.Submit)
	}
	submit := KeyStyle.Render("enter") + " " + button

	return Stack(
		head,
		strings.Join(fields, "\n"),
		InlineError(f.Error),
		Banner(f.Banner),
		Notice(f.Notice),
		submit,
		Help(f.Links),
	)
}

// Members renders the member list with the owner badge
func Members(members []models.Member) string {
	lines := []string{LabelStyle.Render("MEMBERS · " + strings.ToUpper(FormatMemberCount(len(members))))}
	for _, m := range members {
		line := AuthorStyle.Render(Sanitize(m.DisplayName)) + " " + MutedStyle.Render("@"+Sanitize(m.Username))
		if m.Role == models.RoleOwner {
			line += " " + WarningStyle.Render("Owner")
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

type SettingsView struct {
	Table   models.Table
	Members []models.Member

	Profile FieldView

	// Owner-only group administration
	TableName  FieldView
	PromptTime FieldView

	Banner string
	Notice string
	Modal  string
}

// Settings renders the settings page. Group administration is only drawn
// for the owner.
func Settings(s SettingsView) string {
	profile := lipgloss.JoinVertical(lipgloss.Left,
		LabelStyle.Render("YOUR PROFILE"),
		Field(s.Profile),
		Help([]KeyHint{{"ctrl+s", "Save profile"}}),
	)

	table := lipgloss.JoinVertical(lipgloss.Left,
		LabelStyle.Render("TABLE"),
		TextStyle.Render(Sanitize(s.Table.Name)),
		MutedStyle.Render("Daily prompt at "+FormatPromptTime(s.Table.PromptTime)),
		MutedStyle.Render("Invite code: ")+KeyStyle.Render(Sanitize(s.Table.InviteCode)),
	)

	var admin string
	if s.Table.IsOwner {
		admin = lipgloss.JoinVertical(lipgloss.Left,
			LabelStyle.Render("TABLE SETTINGS"),
			Field(s.TableName),
			Field(s.PromptTime),
			Help([]KeyHint{{"ctrl+a", "Save changes"}}),
		)
	}

	danger := lipgloss.JoinVertical(lipgloss.Left,
		ErrorStyle.Bold(true).Render("DANGER ZONE"),
		Help([]KeyHint{{"ctrl+l", "Leave table"}, {"ctrl+x", "Delete account"}}),
	)

	page := Stack(Banner(s.Banner), Notice(s.Notice), profile, table, admin, Members(s.Members), danger)
	if s.Modal != "" {
		return Stack(page, s.Modal)
	}
	return page
}

type ModalView struct {
	Title   string
	Body    string
	Ack     bool
	AckText string
	// Password is set only when the action requires re-entering it
	Password *FieldView
	Confirm  string
	Error    string
}

// Modal renders a destructive-action confirmation
func Modal(m ModalView) string {
	box := "[ ]"
	if m.Ack {
		box = "[x]"
	}
	lines := []string{
		ErrorStyle.Bold(true).Render(m.Title),
		TextStyle.Render(m.Body),
		"",
		KeyStyle.Render("ctrl+k") + " " + box + " " + m.AckText,
	}
	if m.Password != nil {
		lines = append(lines, "", Field(*m.Password))
	}
	if m.Error != "" {
		lines = append(lines, "", InlineError(m.Error))
	}
	confirm := DisabledStyle.Render(m.Confirm)
	if m.Ack {
		confirm = ButtonStyle.Background(colorError).Render(m.Confirm)
	}
	lines = append(lines, "", KeyStyle.Render("ctrl+s")+" "+confirm+"   "+Help([]KeyHint{{"esc", "Cancel"}}))
	return ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
