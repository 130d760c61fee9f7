// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tui runs Kitchen Table as a Bubble Tea program.

# Pages

The model holds one controller at a time. Opening a route tears the previous
controller down (stopping its poller), resolves the new one and loads it in
a command. A load that returns *controllers.Redirect is followed, up to a
small bound; messages from a page that has since been replaced are dropped.

	m := tui.New(ctx, tui.Config{Resolver: r, Tables: client, Start: "/"})
	p := tea.NewProgram(m, tea.WithAltScreen())
	notifier.Attach(p)

# Keys

Keys are matched against the page's actions before anything else, so an
action bound to enter or esc never reaches a widget. Remaining keys go to the
focused widget:

  - tab, shift+tab: move focus between fields
  - ctrl+t: open or close the table switcher (table pages only)
  - up, down, enter, esc: drive the open switcher
  - ctrl+c: quit

Multiline fields use a bubbles textarea and the rest a textinput (masked for
secrets). Every keystroke is copied into the controller with SetField and
read back, so normalized values such as invite codes show as typed. The
widget's own view is handed to the controller with SetFieldView.

# Background Redraws

The poller reloads pages off the update loop. Notifier forwards its
notifications to the running program as a redraw. A one-second tick keeps
the countdown current.

# One-shot Rendering

RenderOnce loads a route and returns a single render without starting a
program.
*/
package tui
