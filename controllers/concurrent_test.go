// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package controllers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/kitchen-table/testutil"
)

// TestToday_ConcurrentTicksAndRenders runs poll ticks, renders and action listings at
// the same time while other members keep answering. Run with -race.
func TestToday_ConcurrentTicksAndRenders(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.ViewerAnswered("Original")
	c := loadToday(t, api)
	c.Render()
	seeded := c.RenderedCount()
	require.Equal(t, len(api.Responses), seeded)

	const members = 8
	var reloads atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < members; i++ {
		wg.Add(3)
		go func(n int) {
			defer wg.Done()
			api.AddResponse(int64(100+n), fmt.Sprintf("Member%d", n), fmt.Sprintf("answer %d", n))
		}(i)
		go func() {
			defer wg.Done()
			reloaded, err := c.Tick(context.Background())
			assert.NoError(t, err)
			if reloaded {
				reloads.Add(1)
			}
			c.Render()
		}()
		go func() {
			defer wg.Done()
			c.Render()
			c.Actions()
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, int(reloads.Load()), members)
	assert.Len(t, api.CallsTo("GET", "/api/prompt/today"), 1+int(reloads.Load()))

	// One more tick after the dust settles picks up whatever was missed
	c.Render()
	_, err := c.Tick(context.Background())
	require.NoError(t, err)

	out := c.Render()
	for i := 0; i < members; i++ {
		assert.Contains(t, out, fmt.Sprintf("answer %d", i))
	}
	assert.Equal(t, seeded+members, c.RenderedCount())
}

// TestToday_ConcurrentTeardown verifies that tearing a page down while ticks
// are in flight leaves the poller stopped.
func TestToday_ConcurrentTeardown(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.ViewerAnswered("Original")
	c := NewToday(newDeps(t, api))
	require.NoError(t, c.Load(context.Background()))
	require.True(t, c.Polling())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			api.AddResponse(int64(200+n), "Late", "late answer")
			_, _ = c.Tick(context.Background())
		}(i)
	}
	c.Teardown()
	wg.Wait()

	assert.False(t, c.Polling(), "a reload racing teardown must not restart polling")
}
