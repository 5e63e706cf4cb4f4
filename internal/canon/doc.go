// Package canon produces RFC 8785 canonical JSON and content-addressed
// identifiers for audit events.
//
// Canonical JSON is the only serialization used for identity computation:
// the same event always hashes to the same ID, across processes and
// replays. Key properties:
//
//   - Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//   - No HTML escaping (< > & are NOT escaped)
//   - Strings NFC normalized at the serialization boundary
//   - No floats, no nulls (both return errors - they break determinism)
//
// Identifiers are SHA-256 over the canonical bytes with domain separation,
// so an event ID can never collide with a hash computed for another record
// kind.
package canon
