package escrow

// Quantity and window mutations that keep the allocation alive:
// partial release, top-up, deadline extension and control transfer.

// ReleasePartial distributes part of an accepted allocation to the
// beneficiary without ending the escrow. The amount must be positive and
// strictly below the remaining quantity; a full release is Finalize.
func (r *Registry) ReleasePartial(id uint64, actor Account, amount uint64) (Allocation, error) {
	return r.transition(OpReleasePartial, id, actor, func(now uint64, a Allocation) (outcome, error) {
		if amount == 0 {
			return outcome{}, errInvalidQuantity(OpReleasePartial, id, "amount must be positive")
		}
		if amount >= a.Quantity {
			return outcome{}, errInvalidQuantity(OpReleasePartial, id, "amount must be below remaining quantity")
		}
		remaining := a.Quantity - amount
		return outcome{
			transfers: []transferStep{{amount: amount, from: r.ledger.CustodianAccount(), to: a.Beneficiary}},
			mutate:    func(next *Allocation) { next.Quantity = remaining },
			fields:    map[string]any{"quantity": int64(remaining)},
		}, nil
	})
}

// TopUp escrows additional funds from the originator into the allocation.
// The only operation under which quantity may increase.
func (r *Registry) TopUp(id uint64, actor Account, amount uint64) (Allocation, error) {
	return r.transition(OpTopUp, id, actor, func(now uint64, a Allocation) (outcome, error) {
		if amount == 0 {
			return outcome{}, errInvalidQuantity(OpTopUp, id, "amount must be positive")
		}
		increased := a.Quantity + amount
		if increased < a.Quantity {
			return outcome{}, errInvalidQuantity(OpTopUp, id, "top-up overflows the escrowed quantity")
		}
		return outcome{
			transfers: []transferStep{{amount: amount, from: a.Originator, to: r.ledger.CustodianAccount()}},
			mutate:    func(next *Allocation) { next.Quantity = increased },
			fields:    map[string]any{"quantity": int64(increased)},
		}, nil
	})
}

// Extend moves the termination block forward. Extensions only increase the
// deadline; a new termination at or before the current one is rejected.
// No within-deadline guard: extending an already-lapsed allocation back
// into an active window is an originator remedy short of reclaim.
func (r *Registry) Extend(id uint64, actor Account, newTermination uint64) (Allocation, error) {
	return r.transition(OpExtend, id, actor, func(now uint64, a Allocation) (outcome, error) {
		if newTermination <= a.TerminationBlock {
			return outcome{}, errInvalidQuantity(OpExtend, id, "termination block may only increase")
		}
		return outcome{
			mutate: func(next *Allocation) { next.TerminationBlock = newTermination },
			fields: map[string]any{"termination": int64(newTermination)},
		}, nil
	})
}

// TransferControl hands the originator side of the allocation to another
// account. The new originator must not collide with the beneficiary, the
// custodian or the current originator.
func (r *Registry) TransferControl(id uint64, actor Account, newOriginator Account) (Allocation, error) {
	return r.transition(OpTransferControl, id, actor, func(now uint64, a Allocation) (outcome, error) {
		if newOriginator == "" || newOriginator == a.Originator ||
			newOriginator == a.Beneficiary || newOriginator == r.ledger.CustodianAccount() {
			return outcome{}, errInvalidParty(OpTransferControl, id, "new originator collides with an existing role")
		}
		return outcome{
			mutate: func(next *Allocation) { next.Originator = newOriginator },
			fields: map[string]any{"originator": string(newOriginator)},
		}, nil
	})
}
