// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/kitchen-table/models"
)

// Counter thresholds for the response composer
const (
	CounterWarnAbove = 450
	CounterMax       = models.ResponseMaxLength
)

// CounterLevel classifies the composer length for styling
type CounterLevel int

const (
	CounterNormal CounterLevel = iota
	CounterWarning
	CounterFull
)

// FormatPromptTime turns a 24-hour "HH:MM" into "h:MM AM/PM".
// Unparseable input is returned unchanged.
func FormatPromptTime(hhmm string) string {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("3:04 PM")
}

// FormatCountdown renders seconds as "{h}h {m}m", or "{m}m" under an hour
func FormatCountdown(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// FormatTimeAgo renders the short relative time shown next to a response
func FormatTimeAgo(t, now time.Time) string {
	seconds := int64(now.Sub(t).Seconds())
	switch {
	case seconds < 60:
		return "Just now"
	case seconds < 3600:
		return fmt.Sprintf("%dm ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%dh ago", seconds/3600)
	default:
		return fmt.Sprintf("%dd ago", seconds/86400)
	}
}

// FormatEdited renders the "edited ..." suffix for an edited response
func FormatEdited(editedAt, now time.Time) string {
	return "edited " + humanize.RelTime(editedAt, now, "ago", "from now")
}

// FormatDate renders an ISO date as "Friday, October 16"
func FormatDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("Monday, January 2")
}

// FormatResponseCount renders "1 response" / "1,204 responses"
func FormatResponseCount(n int) string {
	if n == 1 {
		return "1 response"
	}
	return humanize.Comma(int64(n)) + " responses"
}

// FormatMemberCount renders "1 member" / "12 members"
func FormatMemberCount(n int) string {
	if n == 1 {
		return "1 member"
	}
	return humanize.Comma(int64(n)) + " members"
}

// CharCount returns the composer counter text and its level
func CharCount(length int) (string, CounterLevel) {
	text := fmt.Sprintf("%d / %d", length, CounterMax)
	switch {
	case length >= CounterMax:
		return text, CounterFull
	case length > CounterWarnAbove:
		return text, CounterWarning
	default:
		return text, CounterNormal
	}
}

// Length counts characters the way the composer limit does
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

var ansiSequence = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(\x07|\x1b\\)|\x1b[@-Z\\-_]`)

// Sanitize strips terminal escape sequences and control characters from
// server-provided text before it is drawn. Newlines and tabs are kept.
func Sanitize(s string) string {
	s = ansiSequence.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
