package escrow

// Core lifecycle operations: acceptance, distribution, reversal,
// cancellation and reclaim of lapsed allocations.

// Accept records the beneficiary's acknowledgement of a pending allocation.
func (r *Registry) Accept(id uint64, actor Account) (Allocation, error) {
	return r.transition(OpAccept, id, actor, nil)
}

// Finalize distributes the full escrowed quantity to the beneficiary.
// Allowed while the allocation is pending or accepted and inside the active
// window. The stored quantity is zeroed on full distribution.
func (r *Registry) Finalize(id uint64, actor Account) (Allocation, error) {
	return r.transition(OpFinalize, id, actor, func(now uint64, a Allocation) (outcome, error) {
		return outcome{
			transfers: []transferStep{{amount: a.Quantity, from: r.ledger.CustodianAccount(), to: a.Beneficiary}},
			mutate:    func(next *Allocation) { next.Quantity = 0 },
			fields:    map[string]any{"quantity": int64(0)},
		}, nil
	})
}

// Revert returns the full escrowed quantity to the originator.
// Supervisor-only; no time-window guard, reversal is an override.
func (r *Registry) Revert(id uint64, actor Account) (Allocation, error) {
	return r.transition(OpRevert, id, actor, func(now uint64, a Allocation) (outcome, error) {
		return outcome{
			transfers: []transferStep{{amount: a.Quantity, from: r.ledger.CustodianAccount(), to: a.Originator}},
			mutate:    func(next *Allocation) { next.Quantity = 0 },
			fields:    map[string]any{"quantity": int64(0)},
		}, nil
	})
}

// Terminate lets the originator cancel a still-pending allocation inside
// the active window, refunding the escrowed quantity.
func (r *Registry) Terminate(id uint64, actor Account) (Allocation, error) {
	return r.transition(OpTerminate, id, actor, func(now uint64, a Allocation) (outcome, error) {
		return outcome{
			transfers: []transferStep{{amount: a.Quantity, from: r.ledger.CustodianAccount(), to: a.Originator}},
			mutate:    func(next *Allocation) { next.Quantity = 0 },
			fields:    map[string]any{"quantity": int64(0)},
		}, nil
	})
}

// Reclaim refunds a lapsed allocation to the originator. Succeeds only
// after the termination block has passed (the temporalAfter guard).
func (r *Registry) Reclaim(id uint64, actor Account) (Allocation, error) {
	return r.transition(OpReclaim, id, actor, func(now uint64, a Allocation) (outcome, error) {
		return outcome{
			transfers: []transferStep{{amount: a.Quantity, from: r.ledger.CustodianAccount(), to: a.Originator}},
			mutate:    func(next *Allocation) { next.Quantity = 0 },
			fields:    map[string]any{"quantity": int64(0)},
		}, nil
	})
}
