package escrow

// Op names a registry operation. Operation names appear verbatim in audit
// records and in the CLI, so they are stable identifiers.
type Op string

// State-changing operations.
const (
	OpCreate          Op = "create"
	OpAccept          Op = "accept"
	OpFinalize        Op = "finalize"
	OpRevert          Op = "revert"
	OpTerminate       Op = "terminate"
	OpReclaim         Op = "reclaim"
	OpFreeze          Op = "freeze"
	OpThaw            Op = "thaw"
	OpLock            Op = "lock"
	OpUnlock          Op = "unlock"
	OpChallenge       Op = "challenge"
	OpArbitrate       Op = "arbitrate"
	OpPause           Op = "pause"
	OpResume          Op = "resume"
	OpHold            Op = "hold"
	OpReleaseHold     Op = "release-hold"
	OpTimelock        Op = "timelock"
	OpClaim           Op = "claim"
	OpReleasePartial  Op = "release-partial"
	OpTopUp           Op = "top-up"
	OpExtend          Op = "extend"
	OpTransferControl Op = "transfer-control"
)

// Audit-only operations: validate every guard, persist nothing, emit one
// audit record. Off-chain coordination relies on these as preconditions,
// so their guards are enforced exactly like state-changing ones.
const (
	OpVerifyTwoFactor  Op = "verify-2fa"
	OpMultisigRegister Op = "multisig-register"
	OpMultisigApprove  Op = "multisig-approve"
	OpDocument         Op = "document"
	OpAttest           Op = "attest"
	OpRateLimit        Op = "rate-limit"
	OpMonitor          Op = "monitor"
	OpPriority         Op = "priority"
)

// temporal selects the time-window guard an operation enforces.
type temporal int

const (
	// temporalNone skips the time check (emergency and recovery operations).
	temporalNone temporal = iota
	// temporalWithin requires now <= termination block, else LAPSED.
	temporalWithin
	// temporalAfter requires now > termination block (reclaim of lapsed
	// allocations), else LAPSED with reason deadline_not_reached.
	temporalAfter
)

// preStates describes an operation's allowed pre-state set. Either an
// explicit status list, or every non-terminal state minus exclusions.
type preStates struct {
	list      []Status // explicit members; nil when anyActive is set
	anyActive bool     // any non-terminal status
	exclude   []Status // carved out of anyActive
}

func explicit(statuses ...Status) preStates {
	return preStates{list: statuses}
}

func anyActiveExcept(statuses ...Status) preStates {
	return preStates{anyActive: true, exclude: statuses}
}

// allows reports whether an allocation in status s is an explicit member of
// the pre-state set. No operation may act on an unlisted status.
func (p preStates) allows(s Status) bool {
	if p.anyActive {
		return !s.Terminal() && !StatusIn(s, p.exclude)
	}
	return StatusIn(s, p.list)
}

// rule is one row of the transition table: who may trigger the operation,
// from which states, into which state, under which time-window guard.
// Operation-specific numeric checks run after these shared guards.
type rule struct {
	pre      preStates
	post     Status // "" keeps the current status
	actors   []Role
	temporal temporal
	// auditOnly marks operations that validate and emit without mutating
	// the record.
	auditOnly bool
}

// transitions is the complete ruleset, one row per operation. Keeping it as
// data (not conditional chains in each operation body) makes the whole
// authorization surface reviewable as a single artifact.
//
// OpCreate has no row: it precedes identifier assignment and is handled by
// Registry.Create directly.
var transitions = map[Op]rule{
	OpAccept: {
		pre:      explicit(StatusPending),
		post:     StatusAccepted,
		actors:   []Role{RoleBeneficiary},
		temporal: temporalWithin,
	},
	OpFinalize: {
		// Accepted is allowed alongside pending: distribution after the
		// beneficiary acknowledged is the normal happy path.
		pre:      explicit(StatusPending, StatusAccepted),
		post:     StatusCompleted,
		actors:   []Role{RoleSupervisor, RoleOriginator},
		temporal: temporalWithin,
	},
	OpRevert: {
		pre:    explicit(StatusPending),
		post:   StatusReverted,
		actors: []Role{RoleSupervisor},
	},
	OpTerminate: {
		pre:      explicit(StatusPending),
		post:     StatusTerminated,
		actors:   []Role{RoleOriginator},
		temporal: temporalWithin,
	},
	OpReclaim: {
		pre:      explicit(StatusPending, StatusAccepted),
		post:     StatusExpired,
		actors:   []Role{RoleOriginator, RoleSupervisor},
		temporal: temporalAfter,
	},
	OpFreeze: {
		pre:    anyActiveExcept(StatusFrozen),
		post:   StatusFrozen,
		actors: []Role{RoleSupervisor, RoleOriginator, RoleBeneficiary},
	},
	OpThaw: {
		pre:    explicit(StatusFrozen),
		post:   StatusPending,
		actors: []Role{RoleSupervisor},
	},
	OpLock: {
		pre:    anyActiveExcept(StatusLocked),
		post:   StatusLocked,
		actors: []Role{RoleSupervisor, RoleOriginator},
	},
	OpUnlock: {
		pre:    explicit(StatusLocked),
		post:   StatusPending,
		actors: []Role{RoleSupervisor},
	},
	OpChallenge: {
		pre:      explicit(StatusPending, StatusAccepted),
		post:     StatusChallenged,
		actors:   []Role{RoleOriginator, RoleBeneficiary},
		temporal: temporalWithin,
	},
	OpArbitrate: {
		pre:    explicit(StatusChallenged),
		post:   StatusArbitrated,
		actors: []Role{RoleSupervisor},
	},
	OpPause: {
		pre:    explicit(StatusPending, StatusAccepted),
		post:   StatusPaused,
		actors: []Role{RoleSupervisor, RoleOriginator, RoleBeneficiary},
	},
	OpResume: {
		pre:    explicit(StatusPaused),
		post:   StatusPending,
		actors: []Role{RoleSupervisor, RoleOriginator, RoleBeneficiary},
	},
	OpHold: {
		pre:    explicit(StatusPending),
		post:   StatusHeld,
		actors: []Role{RoleSupervisor},
	},
	OpReleaseHold: {
		pre:    explicit(StatusHeld),
		post:   StatusPending,
		actors: []Role{RoleSupervisor},
	},
	OpTimelock: {
		pre:    explicit(StatusPending),
		post:   StatusTimelocked,
		actors: []Role{RoleOriginator},
	},
	OpClaim: {
		pre:    explicit(StatusTimelocked),
		post:   StatusRetrieved,
		actors: []Role{RoleBeneficiary},
	},
	OpReleasePartial: {
		pre:      explicit(StatusAccepted),
		actors:   []Role{RoleSupervisor, RoleOriginator},
		temporal: temporalWithin,
	},
	OpTopUp: {
		pre:      explicit(StatusPending, StatusAccepted),
		actors:   []Role{RoleOriginator},
		temporal: temporalWithin,
	},
	OpExtend: {
		pre:    explicit(StatusPending, StatusAccepted),
		actors: []Role{RoleOriginator},
	},
	OpTransferControl: {
		pre:    explicit(StatusPending, StatusAccepted),
		actors: []Role{RoleOriginator},
	},

	OpVerifyTwoFactor: {
		pre:       explicit(StatusPending, StatusAccepted),
		actors:    []Role{RoleOriginator, RoleBeneficiary},
		auditOnly: true,
	},
	OpMultisigRegister: {
		pre:       explicit(StatusPending, StatusAccepted),
		actors:    []Role{RoleOriginator},
		auditOnly: true,
	},
	OpMultisigApprove: {
		pre:       explicit(StatusPending, StatusAccepted, StatusChallenged),
		actors:    []Role{RoleSupervisor, RoleOriginator, RoleBeneficiary},
		auditOnly: true,
	},
	OpDocument: {
		pre:       anyActiveExcept(),
		actors:    []Role{RoleSupervisor, RoleOriginator, RoleBeneficiary},
		auditOnly: true,
	},
	OpAttest: {
		pre:       anyActiveExcept(),
		actors:    []Role{RoleSupervisor},
		auditOnly: true,
	},
	OpRateLimit: {
		pre:       anyActiveExcept(),
		actors:    []Role{RoleSupervisor},
		auditOnly: true,
	},
	OpMonitor: {
		pre:       anyActiveExcept(),
		actors:    []Role{RoleSupervisor},
		auditOnly: true,
	},
	OpPriority: {
		pre:       explicit(StatusPending, StatusAccepted),
		actors:    []Role{RoleOriginator, RoleSupervisor},
		auditOnly: true,
	},
}
