// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package highlight owns the single active finding selection shared by the
// risk list and the annotated document.
package highlight

import (
	"sync"

	"go.uber.org/zap"
)

// Locator resolves a finding id to the first segment highlighted for it.
// *annotate.Document satisfies it.
type Locator interface {
	SegmentFor(findingID int) (int, bool)
}

// Revealer brings a highlighted segment into view.
type Revealer interface {
	EnsureVisible(findingID, segmentIndex int)
}

// RevealerFunc adapts a plain function to Revealer.
type RevealerFunc func(findingID, segmentIndex int)

// EnsureVisible calls f.
func (f RevealerFunc) EnsureVisible(findingID, segmentIndex int) {
	f(findingID, segmentIndex)
}

// Controller holds at most one active finding id.
type Controller struct {
	// revealMu serializes Activate so reveals happen in the same order as
	// the transitions that caused them.
	revealMu sync.Mutex

	mu       sync.Mutex
	active   int
	hasValue bool
	locator  Locator
	revealer Revealer
	logger   *zap.Logger
}

// NewController returns a controller with no active selection. revealer may
// be nil.
func NewController(revealer Revealer, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{revealer: revealer, logger: logger}
}

// Bind attaches the locator for the document currently on display.
func (c *Controller) Bind(locator Locator) {
	c.mu.Lock()
	c.locator = locator
	c.mu.Unlock()
}

// Activate makes id the active finding. Re-activating the active id is a
// no-op. A real transition reveals the finding's segment once, if the
// document has one. The revealer must not call Activate.
func (c *Controller) Activate(id int) {
	c.revealMu.Lock()
	defer c.revealMu.Unlock()

	c.mu.Lock()
	if c.hasValue && c.active == id {
		c.mu.Unlock()
		return
	}
	c.active, c.hasValue = id, true

	var (
		segment int
		found   bool
	)
	if c.locator != nil {
		segment, found = c.locator.SegmentFor(id)
	}
	revealer := c.revealer
	c.mu.Unlock()

	if !found {
		c.logger.Debug("Active finding has no highlighted segment", zap.Int("finding_id", id))
		return
	}
	if revealer != nil {
		revealer.EnsureVisible(id, segment)
	}
}

// Clear drops the active selection. It never reveals anything.
func (c *Controller) Clear() {
	c.mu.Lock()
	c.active, c.hasValue = 0, false
	c.mu.Unlock()
}

// Active returns the active finding id, if any.
func (c *Controller) Active() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active, c.hasValue
}

// IsActive reports whether id is the active finding.
func (c *Controller) IsActive(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasValue && c.active == id
}
