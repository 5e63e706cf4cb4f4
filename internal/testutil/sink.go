package testutil

import (
	"sync"

	"github.com/zelrocks/harmony-protocol/internal/escrow"
)

// CollectSink is an AuditSink that records every emitted event in order.
type CollectSink struct {
	mu     sync.Mutex
	events []escrow.Event
}

// NewCollectSink creates an empty collecting sink.
func NewCollectSink() *CollectSink {
	return &CollectSink{}
}

// Emit appends the event. Never fails: audit emission is fire-and-forget.
func (s *CollectSink) Emit(ev escrow.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// Events returns a copy of everything emitted so far.
func (s *CollectSink) Events() []escrow.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]escrow.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Last returns the most recent event; ok is false if nothing was emitted.
func (s *CollectSink) Last() (escrow.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return escrow.Event{}, false
	}
	return s.events[len(s.events)-1], true
}

// Len returns the number of emitted events.
func (s *CollectSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Reset discards all recorded events.
func (s *CollectSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
