package escrow

// Event is the structured audit record emitted exactly once per successful
// operation, after the store commit. Events carry everything an off-chain
// reconciler needs to rebuild the allocation record stream.
//
// Field value types are restricted to string, int64, bool, []any and
// map[string]any so events serialize to canonical JSON (floats and nulls are
// forbidden there).
type Event struct {
	// Origin identifies the emitting registry instance (UUIDv7 token).
	// Lets merged journals from several instances stay attributable.
	Origin string

	// Seq is the registry's monotonic logical sequence. Ordering uses Seq,
	// never block height or wall time.
	Seq int64

	// Op is the operation that produced this event.
	Op Op

	// AllocationID is the affected allocation.
	AllocationID uint64

	// Actor is the account that triggered the operation.
	Actor Account

	// Height is the block height at which the operation ran.
	Height uint64

	// Status is the allocation's status after commit.
	Status Status

	// Fields carries operation-specific data. For mutating operations it
	// holds the resulting absolute values of every changed field (quantity,
	// termination, unlock_height, originator) plus the executed transfers,
	// so a journal fold reproduces the store exactly.
	Fields map[string]any
}

// transferField encodes one executed ledger movement for the audit record.
func transferField(amount uint64, from, to Account) map[string]any {
	return map[string]any{
		"amount": int64(amount),
		"from":   string(from),
		"to":     string(to),
	}
}
