// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import "github.com/charmbracelet/lipgloss"

// Palette follows the warm kitchen colors of the web app
var (
	colorAccent  = lipgloss.Color("#C2703D")
	colorMuted   = lipgloss.Color("#8A8177")
	colorText    = lipgloss.Color("#3B2F2A")
	colorYou     = lipgloss.Color("#2E7D5B")
	colorWarning = lipgloss.Color("#D08C1F")
	colorError   = lipgloss.Color("#B3261E")
	colorSuccess = lipgloss.Color("#2E7D5B")
)

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	MutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	TextStyle     = lipgloss.NewStyle().Foreground(colorText)
	LabelStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorMuted)
	YouStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorYou)
	AuthorStyle   = lipgloss.NewStyle().Bold(true)
	ErrorStyle    = lipgloss.NewStyle().Foreground(colorError)
	SuccessStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	WarningStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	ActiveTab     = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorAccent)
	InactiveTab   = lipgloss.NewStyle().Foreground(colorMuted)
	KeyStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	ButtonStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#FFFFFF")).Background(colorAccent)
	DisabledStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1).
			Width(64)

	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Padding(1, 2).
			Width(64)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorError).
			Padding(1, 2).
			Width(60)

	BannerStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colorError).
			PaddingLeft(1)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colorSuccess).
			PaddingLeft(1)
)
