// Package ledger provides an in-memory settlement ledger implementing the
// registry's Ledger collaborator. Suitable for tests, the CLI and the
// scenario harness; a production deployment injects the real settlement
// primitive instead.
package ledger

import (
	"fmt"
	"sync"

	"github.com/zelrocks/harmony-protocol/internal/escrow"
)

// InsufficientFundsError is returned when a transfer exceeds the source
// account's balance. No value moves.
type InsufficientFundsError struct {
	Account escrow.Account
	Balance uint64
	Amount  uint64
}

// Error implements the error interface.
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("account %s holds %d, cannot transfer %d", e.Account, e.Balance, e.Amount)
}

// Ledger is a mutex-guarded balances map. Transfers are all-or-nothing and
// conserve the total supply: value only ever moves between accounts.
type Ledger struct {
	mu        sync.Mutex
	custodian escrow.Account
	balances  map[escrow.Account]uint64
}

// New creates a ledger with the given custodian account and initial
// balances. The balances map is copied.
func New(custodian escrow.Account, initial map[escrow.Account]uint64) *Ledger {
	balances := make(map[escrow.Account]uint64, len(initial))
	for acct, bal := range initial {
		balances[acct] = bal
	}
	return &Ledger{custodian: custodian, balances: balances}
}

// Transfer moves amount from one account to another. Unknown accounts hold
// zero. Returns InsufficientFundsError (and moves nothing) if the source
// balance is too low.
func (l *Ledger) Transfer(amount uint64, from, to escrow.Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance := l.balances[from]
	if balance < amount {
		return &InsufficientFundsError{Account: from, Balance: balance, Amount: amount}
	}
	l.balances[from] = balance - amount
	l.balances[to] += amount
	return nil
}

// CustodianAccount returns the registry's holding account.
func (l *Ledger) CustodianAccount() escrow.Account {
	return l.custodian
}

// Balance returns the current balance of an account.
func (l *Ledger) Balance(acct escrow.Account) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[acct]
}

// Total returns the sum of all balances. Constant across transfers;
// tests use it to assert conservation.
func (l *Ledger) Total() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	var total uint64
	for _, bal := range l.balances {
		total += bal
	}
	return total
}
