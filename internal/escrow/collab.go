package escrow

// Collaborator interfaces consumed by the registry. All four are assumed
// correct: the registry does not re-derive settlement, time, cryptography
// or audit durability.

// Ledger is the settlement primitive that actually moves value between
// accounts. Transfer must be all-or-nothing per call; a returned error means
// no value moved.
type Ledger interface {
	// Transfer moves amount from one account to another.
	Transfer(amount uint64, from, to Account) error

	// CustodianAccount is the registry's own holding account where escrowed
	// funds reside between creation and release.
	CustodianAccount() Account
}

// Clock is the externally driven block-height source.
type Clock interface {
	// CurrentHeight returns the current block height. Monotonically
	// increasing between calls, externally driven.
	CurrentHeight() uint64
}

// SignatureVerifier recovers the signing account from a digest and
// signature. Used by cryptographic-verification and multisig-approval
// operations.
type SignatureVerifier interface {
	RecoverSigner(digest, signature []byte) (Account, error)
}

// AuditSink receives one structured event per successful operation,
// after the store commit. Emit is fire-and-forget: implementations must not
// fail the operation, and the registry never inspects a result.
type AuditSink interface {
	Emit(Event)
}
