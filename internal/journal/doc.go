// Package journal provides the SQLite-backed audit journal: an append-only
// log of registry events implementing the escrow.AuditSink collaborator.
//
// The journal is an adapter, not the allocation store. The registry's store
// is an in-memory map; the journal exists for off-chain reconciliation and
// lets a fresh process rebuild that map by folding the event stream
// (Rebuild).
//
// # Critical patterns
//
// Content-addressed idempotency:
//   - Event IDs are SHA-256 over RFC 8785 canonical JSON with domain
//     separation (internal/canon)
//   - Writes use ON CONFLICT(id) DO NOTHING, so re-emitting the same event
//     is harmless
//
// Logical ordering:
//   - All ordering uses the (origin, seq) logical sequence, never wall time
//   - All queries include ORDER BY seq ASC, id ASC COLLATE BINARY so reads
//     are deterministic across replays
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
package journal
