package journal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zelrocks/harmony-protocol/internal/escrow"
)

// Record is a journaled event plus its content-addressed identifier.
type Record struct {
	ID    string
	Event escrow.Event
}

const selectColumns = `id, origin, seq, op, allocation_id, actor, height, status, fields`

// AllocationHistory returns every event for one allocation in commit order.
// Deterministic: ORDER BY seq ASC, id ASC COLLATE BINARY.
// Returns an empty slice (not nil) when the allocation has no events.
func (j *Journal) AllocationHistory(ctx context.Context, allocationID uint64) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM audit_events
		WHERE allocation_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, allocationID)
	if err != nil {
		return nil, fmt.Errorf("query allocation history: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ReadAll returns the full journal in commit order.
func (j *Journal) ReadAll(ctx context.Context) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM audit_events
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query all events: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// LastSeq returns the highest logical sequence in the journal, zero when
// empty. A restored registry resumes its sequence from here.
func (j *Journal) LastSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	err := j.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM audit_events`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("query last seq: %w", err)
	}
	if !seq.Valid {
		return 0, nil
	}
	return seq.Int64, nil
}

// LastHeight returns the highest block height recorded, zero when empty.
func (j *Journal) LastHeight(ctx context.Context) (uint64, error) {
	var height sql.NullInt64
	err := j.db.QueryRowContext(ctx, `SELECT MAX(height) FROM audit_events`).Scan(&height)
	if err != nil {
		return 0, fmt.Errorf("query last height: %w", err)
	}
	if !height.Valid {
		return 0, nil
	}
	return uint64(height.Int64), nil
}

func collectRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		rec        Record
		op         string
		allocation int64
		actor      string
		height     int64
		status     string
		fieldsJSON string
	)
	if err := rows.Scan(
		&rec.ID,
		&rec.Event.Origin,
		&rec.Event.Seq,
		&op,
		&allocation,
		&actor,
		&height,
		&status,
		&fieldsJSON,
	); err != nil {
		return Record{}, fmt.Errorf("scan event: %w", err)
	}

	rec.Event.Op = escrow.Op(op)
	rec.Event.AllocationID = uint64(allocation)
	rec.Event.Actor = escrow.Account(actor)
	rec.Event.Height = uint64(height)
	rec.Event.Status = escrow.Status(status)

	fields, err := unmarshalFields(fieldsJSON)
	if err != nil {
		return Record{}, err
	}
	if len(fields) > 0 {
		rec.Event.Fields = fields
	}
	return rec, nil
}
