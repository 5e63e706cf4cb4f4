package escrow

// Account identifies a party on the external ledger.
// Accounts are opaque to the registry; only equality matters.
type Account string

// Status is an allocation's lifecycle state.
// Stored as a short string (10 characters or fewer) for audit legibility.
type Status string

const (
	// StatusPending is the initial state set at creation.
	StatusPending Status = "pending"

	// StatusAccepted means the beneficiary has acknowledged the allocation.
	StatusAccepted Status = "accepted"

	// StatusCompleted is terminal: funds were distributed to the beneficiary.
	StatusCompleted Status = "completed"

	// StatusReverted is terminal: the supervisor returned funds to the originator.
	StatusReverted Status = "reverted"

	// StatusTerminated is terminal: the originator cancelled before acceptance.
	StatusTerminated Status = "terminated"

	// StatusExpired is terminal: the termination block passed and funds were reclaimed.
	StatusExpired Status = "expired"

	// StatusFrozen is an emergency stop. Only the supervisor can thaw.
	StatusFrozen Status = "frozen"

	// StatusChallenged means a party disputes the allocation; awaits arbitration.
	StatusChallenged Status = "challenged"

	// StatusArbitrated is terminal: the supervisor split funds between parties.
	StatusArbitrated Status = "arbitrated"

	// StatusLocked marks an allocation under investigation.
	StatusLocked Status = "locked"

	// StatusHeld marks an allocation under a security hold with an extended deadline.
	StatusHeld Status = "held"

	// StatusPaused is a voluntary suspension by any party.
	StatusPaused Status = "paused"

	// StatusTimelocked defers beneficiary access until an unlock height.
	StatusTimelocked Status = "timelocked"

	// StatusRetrieved is terminal: the beneficiary claimed a timelocked allocation.
	StatusRetrieved Status = "retrieved"
)

// terminalStatuses are permanent end states. Records in these states are
// retained for audit and no operation transitions out of them.
var terminalStatuses = map[Status]bool{
	StatusCompleted:  true,
	StatusReverted:   true,
	StatusTerminated: true,
	StatusExpired:    true,
	StatusArbitrated: true,
	StatusRetrieved:  true,
}

// allStatuses lists every lifecycle state, used for table validation.
var allStatuses = []Status{
	StatusPending, StatusAccepted, StatusCompleted, StatusReverted,
	StatusTerminated, StatusExpired, StatusFrozen, StatusChallenged,
	StatusArbitrated, StatusLocked, StatusHeld, StatusPaused,
	StatusTimelocked, StatusRetrieved,
}

// Terminal reports whether s is a permanent end state.
func (s Status) Terminal() bool {
	return terminalStatuses[s]
}

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	for _, known := range allStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Role names a party relative to a specific allocation.
// Authorization rules are expressed in roles and resolved against the
// allocation record plus the registry's configured supervisor account.
type Role int

const (
	// RoleSupervisor is the single privileged account fixed at construction.
	RoleSupervisor Role = iota + 1
	// RoleOriginator is the party that funded the allocation.
	RoleOriginator
	// RoleBeneficiary is the party entitled to receive the allocation.
	RoleBeneficiary
)

// String returns the role name for logs and audit records.
func (r Role) String() string {
	switch r {
	case RoleSupervisor:
		return "supervisor"
	case RoleOriginator:
		return "originator"
	case RoleBeneficiary:
		return "beneficiary"
	default:
		return "unknown"
	}
}

// Allocation is the sole persisted entity: an escrow record tracking
// resources committed by an originator for eventual release to a beneficiary.
//
// INVARIANTS:
//   - ID is unique, assigned sequentially from 1, never recycled.
//   - Quantity > 0 at creation; decremented by partial releases, increased
//     only by top-up, zeroed on full distribution.
//   - Beneficiary differs from Originator and from the custodian account.
//   - TerminationBlock >= GenesisBlock always; extensions only increase it.
//   - UnlockHeight is zero unless the allocation has been timelocked.
type Allocation struct {
	ID               uint64
	Originator       Account // mutable via transfer-control
	Beneficiary      Account
	ResourceID       uint64 // opaque tag of the resource class
	Quantity         uint64 // remaining escrowed amount
	Status           Status
	GenesisBlock     uint64 // creation height, immutable
	TerminationBlock uint64 // deadline; the allocation is lapsed past this
	UnlockHeight     uint64 // set by timelock, consumed by claim, cleared on recovery
}

// roleOf resolves which role an account holds on this allocation, given the
// registry's supervisor. The supervisor role wins on collision: a supervisor
// that is also a party acts with supervisor authority.
func (a *Allocation) roleOf(actor, supervisor Account) (Role, bool) {
	switch actor {
	case supervisor:
		return RoleSupervisor, true
	case a.Originator:
		return RoleOriginator, true
	case a.Beneficiary:
		return RoleBeneficiary, true
	default:
		return 0, false
	}
}
