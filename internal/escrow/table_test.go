package escrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Every rule must name at least one allowed role, and no rule may accept a
// terminal status as a pre-state: terminal records are immutable.
func TestTransitions_TableWellFormed(t *testing.T) {
	for op, rl := range transitions {
		assert.NotEmpty(t, rl.actors, "op %s has no allowed actors", op)

		for _, s := range allStatuses {
			if s.Terminal() {
				assert.False(t, rl.pre.allows(s),
					"op %s accepts terminal pre-state %s", op, s)
			}
		}

		if rl.post != "" {
			assert.True(t, rl.post.Valid(), "op %s has unknown post state %s", op, rl.post)
			assert.False(t, rl.auditOnly, "audit-only op %s must not set a post state", op)
		}

		for _, s := range rl.pre.list {
			assert.True(t, s.Valid(), "op %s lists unknown pre-state %s", op, s)
		}
	}
}

// Recovery operations must lead back to pending so no allocation can strand
// in a protective state with no exit.
func TestTransitions_ProtectiveStatesHaveExits(t *testing.T) {
	exits := map[Status]Op{
		StatusFrozen:     OpThaw,
		StatusLocked:     OpUnlock,
		StatusPaused:     OpResume,
		StatusHeld:       OpReleaseHold,
		StatusChallenged: OpArbitrate,
		StatusTimelocked: OpClaim,
	}
	for status, op := range exits {
		rl, ok := transitions[op]
		assert.True(t, ok, "no rule for %s", op)
		assert.True(t, rl.pre.allows(status), "%s does not accept %s", op, status)
		assert.True(t, rl.post == StatusPending || rl.post.Terminal(),
			"%s exits to %s, which strands the allocation", op, rl.post)
	}
}

func TestPreStates_AnyActiveExcept(t *testing.T) {
	p := anyActiveExcept(StatusFrozen)
	assert.True(t, p.allows(StatusPending))
	assert.True(t, p.allows(StatusChallenged))
	assert.False(t, p.allows(StatusFrozen), "excluded status")
	assert.False(t, p.allows(StatusCompleted), "terminal status")
}

func TestStatus_LengthBound(t *testing.T) {
	// Status strings are bounded for audit record legibility.
	for _, s := range allStatuses {
		assert.LessOrEqual(t, len(s), 10, "status %s exceeds 10 characters", s)
	}
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "supervisor", RoleSupervisor.String())
	assert.Equal(t, "originator", RoleOriginator.String())
	assert.Equal(t, "beneficiary", RoleBeneficiary.String())
	assert.Equal(t, "unknown", Role(99).String())
}

func TestAllocation_RoleOf(t *testing.T) {
	a := &Allocation{Originator: "alice", Beneficiary: "bob"}

	role, ok := a.roleOf("alice", "sup")
	assert.True(t, ok)
	assert.Equal(t, RoleOriginator, role)

	role, ok = a.roleOf("bob", "sup")
	assert.True(t, ok)
	assert.Equal(t, RoleBeneficiary, role)

	role, ok = a.roleOf("sup", "sup")
	assert.True(t, ok)
	assert.Equal(t, RoleSupervisor, role)

	_, ok = a.roleOf("mallory", "sup")
	assert.False(t, ok)

	// Supervisor authority wins when the supervisor is also a party.
	role, ok = a.roleOf("alice", "alice")
	assert.True(t, ok)
	assert.Equal(t, RoleSupervisor, role)
}
