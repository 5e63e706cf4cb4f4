package testutil

import (
	"errors"
	"sync"

	"github.com/zelrocks/harmony-protocol/internal/escrow"
)

// ScriptedVerifier returns a fixed account (or error) regardless of input.
// Tests exercising authorization paths don't need real cryptography.
type ScriptedVerifier struct {
	Signer escrow.Account
	Err    error
}

// RecoverSigner returns the scripted result.
func (v ScriptedVerifier) RecoverSigner(digest, signature []byte) (escrow.Account, error) {
	if v.Err != nil {
		return "", v.Err
	}
	return v.Signer, nil
}

// FailingLedger wraps a real ledger and rejects the Nth transfer (1-based).
// Used to verify that a failed movement leaves the store unmodified, and
// that multi-transfer operations compensate already-executed steps.
type FailingLedger struct {
	Inner escrow.Ledger

	mu     sync.Mutex
	calls  int
	failOn int
}

// NewFailingLedger wraps inner, failing the failOn-th Transfer call.
// failOn <= 0 never fails.
func NewFailingLedger(inner escrow.Ledger, failOn int) *FailingLedger {
	return &FailingLedger{Inner: inner, failOn: failOn}
}

// Transfer delegates to the inner ledger except on the scripted call.
func (l *FailingLedger) Transfer(amount uint64, from, to escrow.Account) error {
	l.mu.Lock()
	l.calls++
	fail := l.calls == l.failOn
	l.mu.Unlock()

	if fail {
		return errors.New("scripted transfer failure")
	}
	return l.Inner.Transfer(amount, from, to)
}

// CustodianAccount delegates to the inner ledger.
func (l *FailingLedger) CustodianAccount() escrow.Account {
	return l.Inner.CustodianAccount()
}

// Calls returns how many transfers were attempted.
func (l *FailingLedger) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}
