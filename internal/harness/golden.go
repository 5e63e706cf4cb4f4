package harness

import (
	"github.com/zelrocks/harmony-protocol/internal/canon"
	"github.com/zelrocks/harmony-protocol/internal/escrow"
)

// Snapshot renders a run's audit trace as canonical JSON. Scenario runs are
// deterministic, so the snapshot is byte-stable and suitable for golden file
// comparison.
func Snapshot(s *Scenario, res *Result) ([]byte, error) {
	trace := make([]any, len(res.Trace))
	for i, ev := range res.Trace {
		trace[i] = eventMap(ev)
	}
	return canon.Marshal(map[string]any{
		"scenario": s.Name,
		"trace":    trace,
	})
}

// eventMap converts an event to the canonical map form. The fields key is
// omitted for events without an operation payload.
func eventMap(ev escrow.Event) map[string]any {
	m := map[string]any{
		"origin":     ev.Origin,
		"seq":        ev.Seq,
		"op":         string(ev.Op),
		"allocation": int64(ev.AllocationID),
		"actor":      string(ev.Actor),
		"height":     int64(ev.Height),
		"status":     string(ev.Status),
	}
	if len(ev.Fields) > 0 {
		m["fields"] = ev.Fields
	}
	return m
}
