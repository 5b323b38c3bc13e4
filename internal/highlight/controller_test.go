// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package highlight

import (
	"sync"
	"testing"

	"legallens/internal/analysis"
	"legallens/internal/annotate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reveal struct {
	findingID int
	segment   int
}

type recorder struct {
	mu    sync.Mutex
	calls []reveal
}

func (r *recorder) EnsureVisible(findingID, segmentIndex int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, reveal{findingID, segmentIndex})
}

func newBound(t *testing.T) (*Controller, *recorder, *annotate.Document) {
	t.Helper()
	fallback := analysis.Fallback()
	doc := annotate.Annotate(fallback.Text, fallback.Risks)
	rec := &recorder{}
	c := NewController(rec, nil)
	c.Bind(doc)
	return c, rec, doc
}

func TestController_StartsEmpty(t *testing.T) {
	c := NewController(nil, nil)
	_, ok := c.Active()
	assert.False(t, ok)
	assert.False(t, c.IsActive(0))
}

func TestController_ActivateRevealsOnce(t *testing.T) {
	c, rec, doc := newBound(t)

	c.Activate(1)
	c.Activate(1)

	want, ok := doc.SegmentFor(1)
	require.True(t, ok)
	require.Len(t, rec.calls, 1)
	assert.Equal(t, reveal{1, want}, rec.calls[0])

	id, ok := c.Active()
	assert.True(t, ok)
	assert.Equal(t, 1, id)
}

func TestController_SingleActiveSelection(t *testing.T) {
	c, rec, _ := newBound(t)

	c.Activate(1)
	c.Activate(3)

	assert.False(t, c.IsActive(1))
	assert.True(t, c.IsActive(3))
	assert.Len(t, rec.calls, 2)
}

func TestController_ClearNeverReveals(t *testing.T) {
	c, rec, _ := newBound(t)

	c.Clear()
	assert.Empty(t, rec.calls)

	c.Activate(2)
	c.Clear()
	_, ok := c.Active()
	assert.False(t, ok)
	assert.Len(t, rec.calls, 1)

	// Re-activating after a clear is a real transition again.
	c.Activate(2)
	assert.Len(t, rec.calls, 2)
}

func TestController_NoSegmentNoReveal(t *testing.T) {
	c, rec, _ := newBound(t)

	c.Activate(42)
	assert.True(t, c.IsActive(42))
	assert.Empty(t, rec.calls)
}

func TestController_UnboundActivate(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec, nil)

	c.Activate(1)
	assert.True(t, c.IsActive(1))
	assert.Empty(t, rec.calls)
}

func TestRevealerFunc(t *testing.T) {
	var got reveal
	c := NewController(RevealerFunc(func(id, seg int) { got = reveal{id, seg} }), nil)
	c.Bind(annotate.Annotate("a fee applies", []analysis.RiskFinding{{ID: 7, Snippet: "fee applies"}}))

	c.Activate(7)
	assert.Equal(t, reveal{7, 1}, got)
}

func TestController_ConcurrentUse(t *testing.T) {
	c, _, _ := newBound(t)

	var wg sync.WaitGroup
	for i := 1; i <= 4; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.Activate(id)
				c.IsActive(id)
				c.Clear()
			}
		}(i)
	}
	wg.Wait()
}

func TestController_RevealsFollowTransitionOrder(t *testing.T) {
	fallback := analysis.Fallback()
	doc := annotate.Annotate(fallback.Text, fallback.Risks)

	var (
		c        *Controller
		mu       sync.Mutex
		revealed []int
		stale    int
	)
	c = NewController(RevealerFunc(func(findingID, _ int) {
		if !c.IsActive(findingID) {
			stale++
		}
		mu.Lock()
		revealed = append(revealed, findingID)
		mu.Unlock()
	}), nil)
	c.Bind(doc)

	var wg sync.WaitGroup
	for i := 1; i <= 4; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Activate(id)
				c.Activate(id%4 + 1)
			}
		}(i)
	}
	wg.Wait()

	active, ok := c.Active()
	require.True(t, ok)
	require.NotEmpty(t, revealed)
	assert.Equal(t, active, revealed[len(revealed)-1])
	assert.Zero(t, stale)
}
