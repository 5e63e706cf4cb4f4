package escrow

import "sync/atomic"

// Sequence is the monotonic logical counter stamped on audit events.
//
// All events carry a strictly increasing seq number from this counter, never
// a wall-clock timestamp. Replaying a journal ordered by seq reproduces the
// exact commit order.
//
// Thread-safety: safe for concurrent use (atomic operations), though the
// registry's per-call serialization means only one goroutine typically
// calls Next().
type Sequence struct {
	seq atomic.Int64
}

// NewSequence creates a counter starting at 0; the first Next() returns 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// NewSequenceAt creates a counter resumed at a specific position.
// Used when restoring a registry from a journal so new events continue the
// existing sequence.
func NewSequenceAt(start int64) *Sequence {
	s := &Sequence{}
	s.seq.Store(start)
	return s
}

// Next returns the next sequence number and advances the counter.
// Each call returns a unique, increasing value.
func (s *Sequence) Next() int64 {
	return s.seq.Add(1)
}

// Current returns the current position without advancing.
func (s *Sequence) Current() int64 {
	return s.seq.Load()
}
