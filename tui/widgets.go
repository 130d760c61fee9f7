// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tui

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/danielhkuo/kitchen-table/controllers"
)

const (
	areaWidth  = 60
	areaHeight = 4
	inputWidth = 40
)

// widget is the live input behind one controller field: a textarea for
// multiline fields, a textinput otherwise.
type widget struct {
	field controllers.Field
	area  textarea.Model
	input textinput.Model
}

func newWidget(f controllers.Field, blink bool, width int) widget {
	mode := cursor.CursorStatic
	if blink {
		mode = cursor.CursorBlink
	}

	w := widget{field: f}
	if f.Multiline {
		ta := textarea.New()
		ta.Placeholder = f.Placeholder
		ta.ShowLineNumbers = false
		// textarea defaults to 400; 0 lifts the limit
		ta.CharLimit = f.Limit
		ta.SetWidth(clampWidth(areaWidth, width))
		ta.SetHeight(areaHeight)
		ta.Cursor.SetMode(mode)
		ta.SetValue(f.Value)
		w.area = ta
		return w
	}

	ti := textinput.New()
	ti.Placeholder = f.Placeholder
	ti.CharLimit = f.Limit
	ti.Width = clampWidth(inputWidth, width)
	if f.Secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	ti.Cursor.SetMode(mode)
	ti.SetValue(f.Value)
	w.input = ti
	return w
}

// clampWidth fits a widget into a terminal of the given width; 0 means unknown
func clampWidth(want, terminal int) int {
	if terminal > 0 && terminal-4 < want {
		return max(terminal-4, 10)
	}
	return want
}

func (w *widget) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if w.field.Multiline {
		w.area, cmd = w.area.Update(msg)
	} else {
		w.input, cmd = w.input.Update(msg)
	}
	return cmd
}

func (w *widget) value() string {
	if w.field.Multiline {
		return w.area.Value()
	}
	return w.input.Value()
}

func (w *widget) setValue(v string) {
	if w.field.Multiline {
		w.area.SetValue(v)
	} else {
		w.input.SetValue(v)
	}
}

func (w *widget) focus() tea.Cmd {
	if w.field.Multiline {
		return w.area.Focus()
	}
	return w.input.Focus()
}

func (w *widget) blur() {
	if w.field.Multiline {
		w.area.Blur()
	} else {
		w.input.Blur()
	}
}

func (w *widget) resize(terminal int) {
	if w.field.Multiline {
		w.area.SetWidth(clampWidth(areaWidth, terminal))
	} else {
		w.input.Width = clampWidth(inputWidth, terminal)
	}
}

func (w *widget) view() string {
	if w.field.Multiline {
		return w.area.View()
	}
	return w.input.View()
}
