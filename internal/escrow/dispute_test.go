package escrow_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zelrocks/harmony-protocol/internal/escrow"
	"github.com/zelrocks/harmony-protocol/internal/ledger"
	"github.com/zelrocks/harmony-protocol/internal/testutil"
)

func TestChallenge(t *testing.T) {
	for _, actor := range []escrow.Account{alice, bob} {
		t.Run(string(actor), func(t *testing.T) {
			f := newFixture(t)
			a := f.accepted(t)

			got, err := f.registry.Challenge(a.ID, actor)
			require.NoError(t, err)
			assert.Equal(t, escrow.StatusChallenged, got.Status)
			assert.Equal(t, uint64(500), got.Quantity, "challenging moves no funds")
		})
	}
}

func TestChallenge_SupervisorIsNotAParty(t *testing.T) {
	f := newFixture(t)
	a := f.pending(t)

	_, err := f.registry.Challenge(a.ID, supervisor)
	assert.True(t, escrow.IsCode(err, escrow.CodeUnauthorized))
}

func TestArbitrate_SupervisorOnly(t *testing.T) {
	f := newFixture(t)
	a := f.pending(t)
	_, err := f.registry.Challenge(a.ID, bob)
	require.NoError(t, err)

	_, err = f.registry.Arbitrate(a.ID, alice, 50)
	assert.True(t, escrow.IsCode(err, escrow.CodeUnauthorized))

	_, err = f.registry.Arbitrate(a.ID, supervisor, 101)
	assert.True(t, escrow.IsCode(err, escrow.CodeInvalidQuantity))
}

func TestArbitrate_RequiresChallenge(t *testing.T) {
	f := newFixture(t)
	a := f.pending(t)

	_, err := f.registry.Arbitrate(a.ID, supervisor, 50)
	assert.True(t, escrow.IsCode(err, escrow.CodeAlreadyProcessed))
}

// The originator gets the floored share, the beneficiary the exact
// remainder: for every percentage the two must sum to the escrowed quantity.
func TestArbitrate_SplitExactness(t *testing.T) {
	const quantity = 333

	for pct := uint64(0); pct <= 100; pct++ {
		t.Run(fmt.Sprintf("pct=%d", pct), func(t *testing.T) {
			f := newFixture(t)
			a, err := f.registry.Create(alice, bob, 1, quantity, 100)
			require.NoError(t, err)
			_, err = f.registry.Challenge(a.ID, bob)
			require.NoError(t, err)

			got, err := f.registry.Arbitrate(a.ID, supervisor, pct)
			require.NoError(t, err)
			assert.Equal(t, escrow.StatusArbitrated, got.Status)
			assert.Equal(t, uint64(0), got.Quantity)

			wantOriginator := quantity * pct / 100
			assert.Equal(t, 1000-quantity+wantOriginator, f.ledger.Balance(alice))
			assert.Equal(t, 500+quantity-wantOriginator, f.ledger.Balance(bob))
			assert.Equal(t, uint64(0), f.ledger.Balance(custodian), "no dust in custody")
			assert.Equal(t, uint64(1500), f.ledger.Total())
		})
	}
}

// The product quantity*pct exceeds uint64 for large escrows; the floored
// share must still be exact, never a wrapped product.
func TestArbitrate_SplitLargeQuantity(t *testing.T) {
	const quantity = uint64(1) << 63

	f := newFixture(t)
	lgr := ledger.New(custodian, map[escrow.Account]uint64{alice: quantity})
	registry := escrow.New(lgr, f.clock, testutil.ScriptedVerifier{}, f.sink, testPolicy(),
		escrow.WithOriginGenerator(escrow.NewFixedGenerator("big-origin")))

	a, err := registry.Create(alice, bob, 1, quantity, 100)
	require.NoError(t, err)
	_, err = registry.Challenge(a.ID, bob)
	require.NoError(t, err)

	got, err := registry.Arbitrate(a.ID, supervisor, 50)
	require.NoError(t, err)
	assert.Equal(t, escrow.StatusArbitrated, got.Status)

	assert.Equal(t, uint64(1)<<62, lgr.Balance(alice), "exactly half to the originator")
	assert.Equal(t, quantity-uint64(1)<<62, lgr.Balance(bob))
	assert.Equal(t, uint64(0), lgr.Balance(custodian))
	assert.Equal(t, quantity, lgr.Total())
}

// A failed second transfer compensates the first, restoring custody and
// leaving the record challenged.
func TestArbitrate_CompensatesFailedSecondTransfer(t *testing.T) {
	f := newFixture(t)
	failing := testutil.NewFailingLedger(f.ledger, 3) // create, originator share, fail beneficiary share

	registry := escrow.New(failing, f.clock, testutil.ScriptedVerifier{}, f.sink, testPolicy(),
		escrow.WithOriginGenerator(escrow.NewFixedGenerator("comp-origin")))

	a, err := registry.Create(alice, bob, 1, 400, 100)
	require.NoError(t, err)
	_, err = registry.Challenge(a.ID, bob)
	require.NoError(t, err)

	_, err = registry.Arbitrate(a.ID, supervisor, 25)
	assert.True(t, escrow.IsCode(err, escrow.CodeMovementFailed))
	assert.Equal(t, 4, failing.Calls(), "failed step plus one compensating transfer")

	got, err := registry.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, escrow.StatusChallenged, got.Status)
	assert.Equal(t, uint64(400), got.Quantity)
	assert.Equal(t, uint64(400), f.ledger.Balance(custodian), "custody restored")
	assert.Equal(t, uint64(600), f.ledger.Balance(alice))
	assert.Equal(t, uint64(500), f.ledger.Balance(bob))
}

func TestArbitrate_EdgePercentages(t *testing.T) {
	t.Run("all to beneficiary", func(t *testing.T) {
		f := newFixture(t)
		a := f.pending(t)
		_, err := f.registry.Challenge(a.ID, alice)
		require.NoError(t, err)

		_, err = f.registry.Arbitrate(a.ID, supervisor, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(500), f.ledger.Balance(alice))
		assert.Equal(t, uint64(1000), f.ledger.Balance(bob))
	})

	t.Run("all to originator", func(t *testing.T) {
		f := newFixture(t)
		a := f.pending(t)
		_, err := f.registry.Challenge(a.ID, alice)
		require.NoError(t, err)

		_, err = f.registry.Arbitrate(a.ID, supervisor, 100)
		require.NoError(t, err)
		assert.Equal(t, uint64(1000), f.ledger.Balance(alice))
		assert.Equal(t, uint64(500), f.ledger.Balance(bob))
	})
}
