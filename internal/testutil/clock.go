// Package testutil provides deterministic collaborator doubles for registry
// tests: a manually driven block-height clock, a collecting audit sink, a
// scripted signature verifier and a failure-injecting ledger wrapper.
package testutil

import "sync"

// ManualClock is a block-height source driven explicitly by tests.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type ManualClock struct {
	mu     sync.Mutex
	height uint64
}

// NewManualClock creates a clock at the given starting height.
func NewManualClock(height uint64) *ManualClock {
	return &ManualClock{height: height}
}

// CurrentHeight returns the current block height.
func (c *ManualClock) CurrentHeight() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

// Advance moves the clock forward by delta blocks.
func (c *ManualClock) Advance(delta uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.height += delta
}

// SetHeight jumps the clock to an absolute height. Heights only move
// forward; SetHeight panics on an attempt to rewind, since a rewinding
// clock would invalidate every temporal guard assumption.
func (c *ManualClock) SetHeight(height uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if height < c.height {
		panic("testutil: clock may not rewind")
	}
	c.height = height
}
