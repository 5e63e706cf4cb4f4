package ledger

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zelrocks/harmony-protocol/internal/escrow"
)

func newTestLedger() *Ledger {
	return New("vault", map[escrow.Account]uint64{
		"alice": 100,
		"bob":   50,
	})
}

func TestLedger_Transfer(t *testing.T) {
	l := newTestLedger()

	require.NoError(t, l.Transfer(30, "alice", "bob"))
	assert.Equal(t, uint64(70), l.Balance("alice"))
	assert.Equal(t, uint64(80), l.Balance("bob"))
	assert.Equal(t, uint64(150), l.Total())
}

func TestLedger_InsufficientFunds(t *testing.T) {
	l := newTestLedger()

	err := l.Transfer(101, "alice", "bob")
	require.Error(t, err)

	var insufficient *InsufficientFundsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, escrow.Account("alice"), insufficient.Account)
	assert.Equal(t, uint64(100), insufficient.Balance)
	assert.Equal(t, uint64(101), insufficient.Amount)

	// All-or-nothing: nothing moved.
	assert.Equal(t, uint64(100), l.Balance("alice"))
	assert.Equal(t, uint64(50), l.Balance("bob"))
}

func TestLedger_UnknownAccountsHoldZero(t *testing.T) {
	l := newTestLedger()

	assert.Equal(t, uint64(0), l.Balance("carol"))
	err := l.Transfer(1, "carol", "alice")
	assert.Error(t, err)

	require.NoError(t, l.Transfer(10, "alice", "carol"))
	assert.Equal(t, uint64(10), l.Balance("carol"))
}

func TestLedger_CustodianAccount(t *testing.T) {
	l := newTestLedger()
	assert.Equal(t, escrow.Account("vault"), l.CustodianAccount())
}

func TestLedger_InitialBalancesCopied(t *testing.T) {
	initial := map[escrow.Account]uint64{"alice": 10}
	l := New("vault", initial)
	initial["alice"] = 999
	assert.Equal(t, uint64(10), l.Balance("alice"))
}

func TestLedger_ConcurrentConservation(t *testing.T) {
	l := newTestLedger()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Transfer(1, "alice", "bob")
			l.Transfer(1, "bob", "alice")
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(150), l.Total(), "transfers conserve total supply")
}
