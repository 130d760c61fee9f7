// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package poller keeps the today page's response list in sync with the server.

Every interval the poller fetches the current response count and compares it
with the count on screen. A strictly greater count triggers a full reload of
the page; anything else is a no-op. There is no backoff or jitter, and poll
errors are only logged.

	p := poller.New(cfg.PollInterval, todayController, notify)
	p.Start() // clears any previous loop first
	defer p.Stop()

Start never waits for the previous loop, so a reload that re-enters the
answered state may restart the poller from inside a tick.
*/
package poller
