package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zelrocks/harmony-protocol/internal/escrow"
)

func TestLifecycleScenarioGolden(t *testing.T) {
	s, err := Load("testdata/lifecycle-basic.yaml")
	require.NoError(t, err)

	res, err := Run(s)
	require.NoError(t, err)

	snap, err := Snapshot(s, res)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, s.Name, snap)
}

func TestDisputeScenario(t *testing.T) {
	s, err := Load("testdata/dispute-recovery.yaml")
	require.NoError(t, err)

	res, err := Run(s)
	require.NoError(t, err)

	// 25% arbitration of 400: originator 100, beneficiary 300.
	assert.Equal(t, uint64(700), res.Ledger.Balance("alice"))
	assert.Equal(t, uint64(300), res.Ledger.Balance("bob"))
	assert.Equal(t, uint64(0), res.Ledger.Balance("vault"))
	assert.Equal(t, uint64(1000), res.Ledger.Total())

	a, err := res.Registry.Get(1)
	require.NoError(t, err)
	assert.Equal(t, escrow.StatusArbitrated, a.Status)
	assert.Equal(t, uint64(0), a.Quantity)
}

func TestRunReportsViolatedExpectation(t *testing.T) {
	s, err := Parse([]byte(`
name: wrong-expectation
policy:
  supervisor: sup
  custodian: vault
balances:
  alice: 100
steps:
  - op: create
    actor: alice
    params:
      beneficiary: bob
      quantity: 50
      termination: 100
  - op: accept
    actor: alice
    expect:
      status: accepted
`))
	require.NoError(t, err)

	// The originator cannot accept; the scenario expected success.
	_, err = Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 2 (accept)")
	assert.Contains(t, err.Error(), "expected success")
}

func TestRunStepHeightDrivesClock(t *testing.T) {
	s, err := Parse([]byte(`
name: reclaim-after-lapse
policy:
  supervisor: sup
  custodian: vault
balances:
  alice: 100
height: 1
steps:
  - op: create
    actor: alice
    params:
      beneficiary: bob
      quantity: 50
      termination: 20
  - op: reclaim
    actor: alice
    expect:
      error: LAPSED
  - op: reclaim
    actor: alice
    height: 21
    expect:
      status: expired
`))
	require.NoError(t, err)

	res, err := Run(s)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), res.Ledger.Balance("alice"))
}

func TestParseValidation(t *testing.T) {
	_, err := Parse([]byte(`policy: {supervisor: s, custodian: c}`))
	assert.ErrorContains(t, err, "no name")

	_, err = Parse([]byte(`name: n`))
	assert.ErrorContains(t, err, "supervisor and custodian")

	s, err := Parse([]byte(`
name: defaults
policy:
  supervisor: sup
  custodian: vault
`))
	require.NoError(t, err)
	assert.Equal(t, "scenario-origin", s.Origin)
	assert.Equal(t, uint64(120), s.Policy.AttestWindow)
	assert.Equal(t, uint64(600), s.Policy.HoldDuration)
	assert.Equal(t, uint64(10), s.Policy.MaxPriority)
}
