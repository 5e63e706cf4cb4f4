package escrow

// Protective controls: emergency freeze, investigation locks, pauses,
// security holds and timelocks, plus their recovery transitions.
//
// Recovery transitions return the allocation to pending rather than to its
// prior status; the registry does not store historical status, so a
// beneficiary re-accepts after recovery. A timelock set before the
// protective state does not survive recovery: UnlockHeight stays zero on
// every record that is not currently timelocked.

// clearTimelock is the shared domain step for recovery transitions. An
// allocation frozen or locked while timelocked would otherwise return to
// pending carrying a stale unlock height.
func clearTimelock(now uint64, a Allocation) (outcome, error) {
	if a.UnlockHeight == 0 {
		return outcome{}, nil
	}
	return outcome{
		mutate: func(next *Allocation) { next.UnlockHeight = 0 },
		fields: map[string]any{"unlock_height": int64(0)},
	}, nil
}

// Freeze is the emergency stop. Any party may freeze any non-terminal,
// non-frozen allocation; no time-window guard applies.
func (r *Registry) Freeze(id uint64, actor Account) (Allocation, error) {
	return r.transition(OpFreeze, id, actor, nil)
}

// Thaw releases a frozen allocation back to pending. Supervisor-only.
func (r *Registry) Thaw(id uint64, actor Account) (Allocation, error) {
	return r.transition(OpThaw, id, actor, clearTimelock)
}

// Lock places an allocation under investigation.
func (r *Registry) Lock(id uint64, actor Account) (Allocation, error) {
	return r.transition(OpLock, id, actor, nil)
}

// Unlock ends an investigation, returning the allocation to pending.
func (r *Registry) Unlock(id uint64, actor Account) (Allocation, error) {
	return r.transition(OpUnlock, id, actor, clearTimelock)
}

// Pause voluntarily suspends a pending or accepted allocation.
func (r *Registry) Pause(id uint64, actor Account) (Allocation, error) {
	return r.transition(OpPause, id, actor, nil)
}

// Resume lifts a pause, returning the allocation to pending.
func (r *Registry) Resume(id uint64, actor Account) (Allocation, error) {
	return r.transition(OpResume, id, actor, clearTimelock)
}

// Hold places a supervisor security hold on a pending allocation and
// extends the termination block by the policy hold duration, so the hold
// never consumes the originator's active window.
func (r *Registry) Hold(id uint64, actor Account) (Allocation, error) {
	return r.transition(OpHold, id, actor, func(now uint64, a Allocation) (outcome, error) {
		extended := a.TerminationBlock + r.policy.HoldDuration
		if extended < a.TerminationBlock {
			return outcome{}, errInvalidQuantity(OpHold, id, "hold extension overflows the termination block")
		}
		return outcome{
			mutate: func(next *Allocation) { next.TerminationBlock = extended },
			fields: map[string]any{"termination": int64(extended)},
		}, nil
	})
}

// ReleaseHold lifts a security hold, returning the allocation to pending.
// The extended termination block is kept.
func (r *Registry) ReleaseHold(id uint64, actor Account) (Allocation, error) {
	return r.transition(OpReleaseHold, id, actor, clearTimelock)
}

// Timelock defers beneficiary access to a pending allocation until
// unlockHeight. The unlock height must lie inside the allocation's window:
// not in the past and not beyond the termination block.
func (r *Registry) Timelock(id uint64, actor Account, unlockHeight uint64) (Allocation, error) {
	return r.transition(OpTimelock, id, actor, func(now uint64, a Allocation) (outcome, error) {
		if unlockHeight < now {
			return outcome{}, errInvalidQuantity(OpTimelock, id, "unlock height in the past")
		}
		if unlockHeight > a.TerminationBlock {
			return outcome{}, errInvalidQuantity(OpTimelock, id, "unlock height beyond termination block")
		}
		return outcome{
			mutate: func(next *Allocation) { next.UnlockHeight = unlockHeight },
			fields: map[string]any{"unlock_height": int64(unlockHeight)},
		}, nil
	})
}

// Claim distributes a timelocked allocation to the beneficiary once the
// unlock height is reached.
func (r *Registry) Claim(id uint64, actor Account) (Allocation, error) {
	return r.transition(OpClaim, id, actor, func(now uint64, a Allocation) (outcome, error) {
		if now < a.UnlockHeight {
			return outcome{}, errLapsed(OpClaim, id, "timelock_active")
		}
		return outcome{
			transfers: []transferStep{{amount: a.Quantity, from: r.ledger.CustodianAccount(), to: a.Beneficiary}},
			mutate:    func(next *Allocation) { next.Quantity = 0 },
			fields:    map[string]any{"quantity": int64(0)},
		}, nil
	})
}
