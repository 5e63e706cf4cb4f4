package escrow

// Dispute operations: challenge and supervisor arbitration.

// Challenge marks a pending or accepted allocation as disputed. Either
// party may challenge inside the active window; resolution is arbitration.
func (r *Registry) Challenge(id uint64, actor Account) (Allocation, error) {
	return r.transition(OpChallenge, id, actor, nil)
}

// Arbitrate resolves a challenged allocation by splitting the escrowed
// quantity: the originator receives floor(quantity*pct/100) and the
// beneficiary receives the exact remainder, so the two shares always sum to
// the escrowed quantity with no dust lost or duplicated.
//
// Both transfers are atomic with the state write: if either fails, the
// other is compensated and no state change is observed.
func (r *Registry) Arbitrate(id uint64, actor Account, originatorPct uint64) (Allocation, error) {
	return r.transition(OpArbitrate, id, actor, func(now uint64, a Allocation) (outcome, error) {
		if originatorPct > 100 {
			return outcome{}, errInvalidQuantity(OpArbitrate, id, "originator percentage exceeds 100")
		}

		// Floor division for the originator share; the beneficiary share is
		// the remainder, never independently rounded. Split across the
		// quotient and remainder of q/100 so q*pct cannot overflow uint64:
		// q/100*pct <= q, and q%100*pct < 10000.
		originatorShare := a.Quantity/100*originatorPct + a.Quantity%100*originatorPct/100
		beneficiaryShare := a.Quantity - originatorShare

		custodian := r.ledger.CustodianAccount()
		var steps []transferStep
		if originatorShare > 0 {
			steps = append(steps, transferStep{amount: originatorShare, from: custodian, to: a.Originator})
		}
		if beneficiaryShare > 0 {
			steps = append(steps, transferStep{amount: beneficiaryShare, from: custodian, to: a.Beneficiary})
		}

		return outcome{
			transfers: steps,
			mutate:    func(next *Allocation) { next.Quantity = 0 },
			fields: map[string]any{
				"quantity":          int64(0),
				"originator_pct":    int64(originatorPct),
				"originator_share":  int64(originatorShare),
				"beneficiary_share": int64(beneficiaryShare),
			},
		}, nil
	})
}
