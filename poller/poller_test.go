// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu       sync.Mutex
	fetched  int
	rendered int
	reloads  int
	fetchErr error
	fetch    func(ctx context.Context) (int, error)
}

func (s *fakeSource) FetchCount(ctx context.Context) (int, error) {
	if s.fetch != nil {
		return s.fetch(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetched, s.fetchErr
}

func (s *fakeSource) RenderedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rendered
}

func (s *fakeSource) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloads++
	s.rendered = s.fetched
	return nil
}

func TestTick_EqualCountIsNoOp(t *testing.T) {
	src := &fakeSource{fetched: 2, rendered: 2}
	notified := 0
	p := New(time.Hour, src, func() { notified++ })

	reloaded, err := p.Tick(context.Background())
	require.NoError(t, err)
	assert.False(t, reloaded)
	assert.Equal(t, 0, src.reloads)
	assert.Equal(t, 0, notified)
}

func TestTick_FewerIsNoOp(t *testing.T) {
	src := &fakeSource{fetched: 1, rendered: 3}
	p := New(time.Hour, src, nil)

	reloaded, err := p.Tick(context.Background())
	require.NoError(t, err)
	assert.False(t, reloaded)
	assert.Equal(t, 0, src.reloads)
}

func TestTick_GreaterReloads(t *testing.T) {
	src := &fakeSource{fetched: 3, rendered: 2}
	notified := 0
	p := New(time.Hour, src, func() { notified++ })

	reloaded, err := p.Tick(context.Background())
	require.NoError(t, err)
	assert.True(t, reloaded)
	assert.Equal(t, 1, src.reloads)
	assert.Equal(t, 1, notified)

	// rendered caught up, so the next tick is a no-op
	reloaded, err = p.Tick(context.Background())
	require.NoError(t, err)
	assert.False(t, reloaded)
	assert.Equal(t, 1, src.reloads)
}

func TestTick_FetchError(t *testing.T) {
	boom := errors.New("network down")
	src := &fakeSource{fetchErr: boom}
	p := New(time.Hour, src, nil)

	reloaded, err := p.Tick(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, reloaded)
	assert.Equal(t, 0, src.reloads)
}

func TestStart_ClearsPreviousLoop(t *testing.T) {
	calls := make(chan context.Context, 4)
	src := &fakeSource{fetch: func(ctx context.Context) (int, error) {
		calls <- ctx
		<-ctx.Done()
		return 0, ctx.Err()
	}}
	p := New(5*time.Millisecond, src, nil)
	defer p.Stop()

	next := func() context.Context {
		select {
		case ctx := <-calls:
			return ctx
		case <-time.After(2 * time.Second):
			t.Fatal("poller never ticked")
			return nil
		}
	}

	p.Start()
	first := next()
	assert.NoError(t, first.Err())

	p.Start()
	assert.Error(t, first.Err(), "restart cancels the old loop")
	second := next()
	assert.NoError(t, second.Err())
	assert.True(t, p.Running())

	p.Stop()
	assert.Error(t, second.Err())
	assert.False(t, p.Running())
}

func TestStop_IsFinal(t *testing.T) {
	p := New(time.Millisecond, &fakeSource{}, nil)
	p.Stop()
	p.Start()
	assert.False(t, p.Running())
}

func TestPause_AllowsRestart(t *testing.T) {
	p := New(time.Hour, &fakeSource{}, nil)
	defer p.Stop()

	p.Start()
	assert.True(t, p.Running())
	p.Pause()
	assert.False(t, p.Running())
	p.Start()
	assert.True(t, p.Running())
}

func TestNew_DefaultInterval(t *testing.T) {
	p := New(0, &fakeSource{}, nil)
	assert.Equal(t, DefaultInterval, p.interval)
}
