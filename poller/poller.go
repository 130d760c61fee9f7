// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval between poll ticks
const DefaultInterval = 30 * time.Second

// Source supplies the counts compared on each tick and the reload run when
// the server has more responses than are rendered.
type Source interface {
	// FetchCount returns the number of responses the server holds
	FetchCount(ctx context.Context) (int, error)
	// RenderedCount returns the number of responses currently drawn
	RenderedCount() int
	// Reload refetches and re-renders the whole page
	Reload(ctx context.Context) error
}

// Poller runs a fixed-interval count check. At most one loop runs at a time.
type Poller struct {
	interval time.Duration
	source   Source
	notify   func()

	mu     sync.Mutex
	base   context.Context
	stop   context.CancelFunc
	cancel context.CancelFunc
	gen    int
}

// New creates a stopped poller. notify (may be nil) is called after a
// poll-triggered reload completes.
func New(interval time.Duration, source Source, notify func()) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	base, stop := context.WithCancel(context.Background())
	return &Poller{
		interval: interval,
		source:   source,
		notify:   notify,
		base:     base,
		stop:     stop,
	}
}

// Start clears any running loop and starts a new one. It does not wait for
// the old loop to exit, so it is safe to call from inside a reload.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.base.Err() != nil {
		return
	}
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(p.base)
	p.cancel = cancel
	p.gen++

	slog.Debug("poller started", "interval", p.interval, "generation", p.gen)
	go p.loop(ctx, p.gen)
}

// Pause stops the running loop; Start may be called again later
func (p *Poller) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// Stop ends polling for good
func (p *Poller) Stop() {
	p.Pause()
	p.stop()
}

// Running reports whether a loop is active
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil && p.base.Err() == nil
}

func (p *Poller) loop(ctx context.Context, gen int) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Debug("poller stopped", "generation", gen)
			return
		case <-ticker.C:
			if _, err := p.Tick(ctx); err != nil {
				slog.Warn("poll failed", "error", err)
			}
		}
	}
}

// Tick performs one check. It reports whether a reload happened. Equal or
// smaller counts are a no-op.
func (p *Poller) Tick(ctx context.Context) (bool, error) {
	fetched, err := p.source.FetchCount(ctx)
	if err != nil {
		return false, err
	}
	rendered := p.source.RenderedCount()
	if fetched <= rendered {
		return false, nil
	}

	slog.Info("new responses available", "fetched", fetched, "rendered", rendered)
	if err := p.source.Reload(ctx); err != nil {
		return false, err
	}
	if p.notify != nil {
		p.notify()
	}
	return true, nil
}
