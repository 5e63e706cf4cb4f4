package journal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zelrocks/harmony-protocol/internal/canon"
	"github.com/zelrocks/harmony-protocol/internal/escrow"
)

// Emit implements escrow.AuditSink. Fire-and-forget: a write failure is
// logged with full event context for manual recovery and never propagates
// into the operation that emitted the event.
func (j *Journal) Emit(ev escrow.Event) {
	if _, err := j.WriteEvent(context.Background(), ev); err != nil {
		slog.Error("audit event write failed",
			"error", err,
			"op", ev.Op,
			"allocation", ev.AllocationID,
			"origin", ev.Origin,
			"seq", ev.Seq,
		)
	}
}

// WriteEvent appends an event and returns its content-addressed ID.
// Idempotent via ON CONFLICT(id) DO NOTHING: writing the same event twice
// leaves a single row. Other constraint violations still return errors.
func (j *Journal) WriteEvent(ctx context.Context, ev escrow.Event) (string, error) {
	m := eventMap(ev)

	id, err := canon.EventID(m)
	if err != nil {
		return "", fmt.Errorf("write event: %w", err)
	}

	fieldsJSON, err := marshalFields(ev.Fields)
	if err != nil {
		return "", fmt.Errorf("write event: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO audit_events
		(id, origin, seq, op, allocation_id, actor, height, status, fields)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		id,
		ev.Origin,
		ev.Seq,
		string(ev.Op),
		ev.AllocationID,
		string(ev.Actor),
		ev.Height,
		string(ev.Status),
		fieldsJSON,
	)
	if err != nil {
		return "", fmt.Errorf("write event: %w", err)
	}

	return id, nil
}
