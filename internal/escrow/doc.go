// Package escrow implements the allocation registry and its transition engine.
//
// The registry tracks time-boxed, conditionally-releasable allocations
// between an originator and a beneficiary, mediated by a privileged
// supervisor account. Escrowed funds live in the ledger's custodian account
// between creation and release.
//
// ARCHITECTURE:
//
// Serialized Transition Engine:
// Every external call takes the registry mutex, reads the full allocation
// record, evaluates guards, performs at most one ledger movement (two for
// arbitration, both-or-neither), writes a full replacement record, and emits
// exactly one audit event. No partial commit is ever observable:
// - Guards run before any mutation
// - The ledger transfer is the last check before commit
// - A failed transfer leaves the store byte-identical
//
// Guard Pipeline:
// Guards compose in a fixed order so error codes are deterministic:
// identifier validity, existence, authorization, status membership,
// temporal validity, then operation-specific numeric checks. Each guard
// violation maps to exactly one error code (see errors.go).
//
// Transition Table:
// The ruleset is data, not code. Every operation's allowed pre-states,
// post-state, actor set and temporal guard live in a single lookup table
// (table.go) so the whole ruleset is auditable as one artifact.
//
// CRITICAL PATTERNS:
//
// Conservation:
// For every allocation, the sum of funds transferred out across its history
// plus the final stored quantity equals the quantity at creation. Terminal
// distributions zero the stored quantity; partial releases decrement it.
//
// Logical Sequence:
// Audit events are stamped with a monotonic seq counter from Sequence.Next(),
// never wall-clock time. Block height comes from the injected Clock and is
// recorded on events but never used for ordering.
package escrow
