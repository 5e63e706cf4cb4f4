package escrow

import "encoding/hex"

// Audit-only operations. These validate actor identity, status membership
// and value thresholds exactly like state-changing operations, then emit an
// audit record without persisting anything. Off-chain coordination relies
// on the emitted records as preconditions, so every guard still applies.

// VerifyTwoFactor records a second-factor confirmation for an allocation.
// The attested height must be recent: not in the future and within the
// policy attestation window of the current height.
func (r *Registry) VerifyTwoFactor(id uint64, actor Account, attestedHeight uint64) error {
	_, err := r.transition(OpVerifyTwoFactor, id, actor, func(now uint64, a Allocation) (outcome, error) {
		if !RecentAttestation(now, attestedHeight, r.policy.AttestWindow) {
			return outcome{}, errVerificationFailed(OpVerifyTwoFactor, id, "attested height not recent")
		}
		return outcome{
			fields: map[string]any{"attested_height": int64(attestedHeight)},
		}, nil
	})
	return err
}

// RegisterMultisig records a multisig arrangement for the allocation:
// a signer set and an approval threshold. The arrangement itself is not
// persisted; the audit record is the registration.
func (r *Registry) RegisterMultisig(id uint64, actor Account, signers []Account, threshold uint64) error {
	_, err := r.transition(OpMultisigRegister, id, actor, func(now uint64, a Allocation) (outcome, error) {
		if threshold == 0 || threshold > uint64(len(signers)) {
			return outcome{}, errInvalidQuantity(OpMultisigRegister, id, "threshold must be in [1, len(signers)]")
		}
		custodian := r.ledger.CustodianAccount()
		names := make([]any, len(signers))
		for i, s := range signers {
			if s == "" || s == custodian {
				return outcome{}, errInvalidParty(OpMultisigRegister, id, "signer empty or custodian")
			}
			names[i] = string(s)
		}
		return outcome{
			fields: map[string]any{
				"signers":   names,
				"threshold": int64(threshold),
			},
		}, nil
	})
	return err
}

// ApproveMultisig records one signer's approval. The signature must recover
// to the calling account: registered signer sets are intentionally not
// stored, so self-consistency is the enforceable check.
func (r *Registry) ApproveMultisig(id uint64, actor Account, digest, signature []byte) error {
	_, err := r.transition(OpMultisigApprove, id, actor, func(now uint64, a Allocation) (outcome, error) {
		signer, verr := r.verifier.RecoverSigner(digest, signature)
		if verr != nil {
			return outcome{}, errVerificationFailed(OpMultisigApprove, id, "signature recovery failed")
		}
		if signer != actor {
			return outcome{}, errVerificationFailed(OpMultisigApprove, id, "recovered signer is not the caller")
		}
		return outcome{
			fields: map[string]any{"digest": hex.EncodeToString(digest)},
		}, nil
	})
	return err
}

// AttachDocument records a document digest against the allocation.
func (r *Registry) AttachDocument(id uint64, actor Account, digest string) error {
	_, err := r.transition(OpDocument, id, actor, func(now uint64, a Allocation) (outcome, error) {
		if digest == "" {
			return outcome{}, errInvalidQuantity(OpDocument, id, "document digest must be non-empty")
		}
		return outcome{
			fields: map[string]any{"digest": digest},
		}, nil
	})
	return err
}

// Attest records a supervisor attestation note.
func (r *Registry) Attest(id uint64, actor Account, note string) error {
	_, err := r.transition(OpAttest, id, actor, func(now uint64, a Allocation) (outcome, error) {
		return outcome{
			fields: map[string]any{"note": note},
		}, nil
	})
	return err
}

// ConfigureRateLimit records a rate-limit setting for the allocation.
// Audit-only: the limit is not enforced by the registry itself.
func (r *Registry) ConfigureRateLimit(id uint64, actor Account, limit uint64) error {
	_, err := r.transition(OpRateLimit, id, actor, func(now uint64, a Allocation) (outcome, error) {
		if limit == 0 {
			return outcome{}, errInvalidQuantity(OpRateLimit, id, "limit must be positive")
		}
		return outcome{
			fields: map[string]any{"limit": int64(limit)},
		}, nil
	})
	return err
}

// RegisterMonitor records an oversight account for the allocation.
func (r *Registry) RegisterMonitor(id uint64, actor Account, monitor Account) error {
	_, err := r.transition(OpMonitor, id, actor, func(now uint64, a Allocation) (outcome, error) {
		if monitor == "" || monitor == r.ledger.CustodianAccount() {
			return outcome{}, errInvalidParty(OpMonitor, id, "monitor empty or custodian")
		}
		return outcome{
			fields: map[string]any{"monitor": string(monitor)},
		}, nil
	})
	return err
}

// SetPriority records a handling priority, bounded by the policy maximum.
func (r *Registry) SetPriority(id uint64, actor Account, level uint64) error {
	_, err := r.transition(OpPriority, id, actor, func(now uint64, a Allocation) (outcome, error) {
		if level > r.policy.MaxPriority {
			return outcome{}, errInvalidQuantity(OpPriority, id, "level exceeds policy maximum")
		}
		return outcome{
			fields: map[string]any{"level": int64(level)},
		}, nil
	})
	return err
}
