package escrow

import (
	"fmt"
	"log/slog"
	"sync"
)

// Policy holds the deployment-time parameters of a registry instance.
// The supervisor is a fixed identity configured at construction, not a
// language-level constant.
type Policy struct {
	// Supervisor is the single privileged account with override authority.
	Supervisor Account

	// AttestWindow is how many blocks back a 2FA attestation height may lie.
	AttestWindow uint64

	// HoldDuration is how many blocks a security hold extends the deadline.
	HoldDuration uint64

	// MaxPriority is the highest level accepted by the priority operation.
	MaxPriority uint64
}

// Registry owns the allocation store, the identifier allocator and the
// transition engine. All mutation flows through the guard pipeline in
// transition(); the store map is never touched anywhere else.
//
// Thread-safety model: every operation takes the registry mutex for its full
// duration, so each call fully serializes against global state. Within one
// call nothing blocks or suspends; either the whole transition (guards,
// transfer, store write, audit emission) completes or none of it is
// observed.
type Registry struct {
	mu sync.Mutex

	ledger   Ledger
	clock    Clock
	verifier SignatureVerifier
	audit    AuditSink

	policy Policy
	origin string
	seq    *Sequence

	allocations map[uint64]Allocation
	lastID      uint64 // identifier allocator: last-issued value, never reused
}

// Option configures optional registry parameters.
type Option func(*Registry)

// WithOriginGenerator overrides the origin-token generator.
// Tests pass NewFixedGenerator for deterministic audit traces.
func WithOriginGenerator(g OriginGenerator) Option {
	return func(r *Registry) {
		r.origin = g.Generate()
	}
}

// WithState seeds the registry with a previously rebuilt allocation store
// and allocator position (journal replay). The map is copied.
func WithState(allocations map[uint64]Allocation, lastID uint64) Option {
	return func(r *Registry) {
		r.allocations = make(map[uint64]Allocation, len(allocations))
		for id, a := range allocations {
			r.allocations[id] = a
		}
		r.lastID = lastID
	}
}

// WithSequence resumes the audit sequence at a specific position so events
// appended after a journal replay continue the existing order.
func WithSequence(seq *Sequence) Option {
	return func(r *Registry) {
		r.seq = seq
	}
}

// New creates a registry with the given collaborators and policy.
func New(ledger Ledger, clock Clock, verifier SignatureVerifier, audit AuditSink, policy Policy, opts ...Option) *Registry {
	r := &Registry{
		ledger:      ledger,
		clock:       clock,
		verifier:    verifier,
		audit:       audit,
		policy:      policy,
		origin:      UUIDv7Generator{}.Generate(),
		seq:         NewSequence(),
		allocations: make(map[uint64]Allocation),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns a copy of the allocation record, or NOT_FOUND.
func (r *Registry) Get(id uint64) (Allocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.allocations[id]
	if !ok {
		return Allocation{}, errNotFound("get", id)
	}
	return a, nil
}

// LastID returns the allocator's last-issued identifier.
func (r *Registry) LastID() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastID
}

// Origin returns the instance's origin token.
func (r *Registry) Origin() string {
	return r.origin
}

// Create escrows funds into custody and registers a new pending allocation.
// The caller is the originator. Guards, in order: quantity, parties,
// deadline, then the funding transfer. The identifier counter advances only
// after the transfer succeeds, so a rejected funding never burns an id.
func (r *Registry) Create(actor, beneficiary Account, resourceID, quantity, termination uint64) (Allocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.CurrentHeight()
	custodian := r.ledger.CustodianAccount()

	if quantity == 0 {
		return Allocation{}, errInvalidQuantity(OpCreate, 0, "quantity must be positive")
	}
	if actor == "" || actor == custodian {
		return Allocation{}, errInvalidParty(OpCreate, 0, "originator must be a party distinct from the custodian")
	}
	if !ValidBeneficiary(beneficiary, actor, custodian) {
		return Allocation{}, errInvalidParty(OpCreate, 0, "beneficiary must differ from originator and custodian")
	}
	if IsLapsed(now, termination) {
		return Allocation{}, errLapsed(OpCreate, 0, "termination block already passed")
	}

	// Funding is the last check before commit. On failure the counter must
	// not advance and no record may exist.
	if err := r.ledger.Transfer(quantity, actor, custodian); err != nil {
		return Allocation{}, errMovementFailed(OpCreate, 0, err)
	}

	r.lastID++
	a := Allocation{
		ID:               r.lastID,
		Originator:       actor,
		Beneficiary:      beneficiary,
		ResourceID:       resourceID,
		Quantity:         quantity,
		Status:           StatusPending,
		GenesisBlock:     now,
		TerminationBlock: termination,
	}
	r.allocations[a.ID] = a

	r.emit(OpCreate, a.ID, actor, now, StatusPending, map[string]any{
		"originator":  string(actor),
		"beneficiary": string(beneficiary),
		"resource":    int64(resourceID),
		"quantity":    int64(quantity),
		"genesis":     int64(now),
		"termination": int64(termination),
		"transfers":   []any{transferField(quantity, actor, custodian)},
	})

	slog.Info("allocation created",
		"allocation", a.ID,
		"originator", actor,
		"beneficiary", beneficiary,
		"quantity", quantity,
		"termination", termination,
	)
	return a, nil
}

// transferStep is one planned ledger movement.
type transferStep struct {
	amount uint64
	from   Account
	to     Account
}

// outcome is what an operation's domain check contributes beyond the shared
// guards: planned movements, record mutations and audit payload.
type outcome struct {
	transfers []transferStep
	mutate    func(*Allocation)     // applied to a copy before commit
	fields    map[string]any        // audit payload; transfers appended automatically
}

// transition runs the shared guard pipeline for op against allocation id,
// then the operation's domain check, then movement, commit and emission.
//
// Pipeline order is fixed so error codes are deterministic:
//  1. identifier validity  -> INVALID_IDENTIFIER
//  2. existence            -> NOT_FOUND
//  3. authorization        -> UNAUTHORIZED
//  4. status membership    -> ALREADY_PROCESSED
//  5. temporal validity    -> LAPSED
//  6. domain checks        -> operation-specific code
//  7. ledger movement      -> MOVEMENT_FAILED (store untouched)
//  8. commit + audit emission
func (r *Registry) transition(op Op, id uint64, actor Account, domain func(now uint64, a Allocation) (outcome, error)) (Allocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rl, ok := transitions[op]
	if !ok {
		return Allocation{}, fmt.Errorf("escrow: no transition rule for operation %q", op)
	}

	now := r.clock.CurrentHeight()

	if !ValidIdentifier(id, r.lastID) {
		return Allocation{}, errInvalidIdentifier(op, id)
	}

	a, exists := r.allocations[id]
	if !exists {
		return Allocation{}, errNotFound(op, id)
	}

	if !r.actorAllowed(actor, rl.actors, &a) {
		return Allocation{}, errUnauthorized(op, id, actor)
	}

	if !rl.pre.allows(a.Status) {
		return Allocation{}, errAlreadyProcessed(op, id, a.Status)
	}

	switch rl.temporal {
	case temporalWithin:
		if IsLapsed(now, a.TerminationBlock) {
			return Allocation{}, errLapsed(op, id, "deadline_passed")
		}
	case temporalAfter:
		if !IsLapsed(now, a.TerminationBlock) {
			return Allocation{}, errLapsed(op, id, "deadline_not_reached")
		}
	}

	var out outcome
	if domain != nil {
		var err error
		out, err = domain(now, a)
		if err != nil {
			return Allocation{}, err
		}
	}

	if err := r.execute(op, id, out.transfers); err != nil {
		return Allocation{}, err
	}

	// Commit: full replacement record.
	next := a
	if out.mutate != nil {
		out.mutate(&next)
	}
	if rl.post != "" {
		next.Status = rl.post
	}
	if !rl.auditOnly {
		r.allocations[id] = next
	}

	fields := out.fields
	if len(out.transfers) > 0 {
		if fields == nil {
			fields = make(map[string]any, 1)
		}
		moved := make([]any, len(out.transfers))
		for i, t := range out.transfers {
			moved[i] = transferField(t.amount, t.from, t.to)
		}
		fields["transfers"] = moved
	}
	r.emit(op, id, actor, now, next.Status, fields)

	slog.Info("allocation transition",
		"op", op,
		"allocation", id,
		"actor", actor,
		"from", a.Status,
		"to", next.Status,
		"height", now,
	)
	return next, nil
}

// execute performs the planned ledger movements. Movements are atomic with
// the state write: on failure, already-executed steps are compensated in
// reverse so custody is restored, and the store stays unmodified.
func (r *Registry) execute(op Op, id uint64, steps []transferStep) error {
	for i, step := range steps {
		if err := r.ledger.Transfer(step.amount, step.from, step.to); err != nil {
			for j := i - 1; j >= 0; j-- {
				undo := steps[j]
				if cerr := r.ledger.Transfer(undo.amount, undo.to, undo.from); cerr != nil {
					// Compensation can only fail if the ledger itself is
					// inconsistent; surface loudly, there is no further
					// recovery at this layer.
					slog.Error("compensating transfer failed",
						"op", op,
						"allocation", id,
						"amount", undo.amount,
						"error", cerr,
					)
				}
			}
			return errMovementFailed(op, id, err)
		}
	}
	return nil
}

// actorAllowed resolves role-based authorization against the record and the
// configured supervisor.
func (r *Registry) actorAllowed(actor Account, roles []Role, a *Allocation) bool {
	role, ok := a.roleOf(actor, r.policy.Supervisor)
	if !ok {
		return false
	}
	for _, allowed := range roles {
		if role == allowed {
			return true
		}
	}
	return false
}

// emit sends the audit event for a committed operation. Exactly one event
// per successful operation, after the store write.
func (r *Registry) emit(op Op, id uint64, actor Account, height uint64, status Status, fields map[string]any) {
	r.audit.Emit(Event{
		Origin:       r.origin,
		Seq:          r.seq.Next(),
		Op:           op,
		AllocationID: id,
		Actor:        actor,
		Height:       height,
		Status:       status,
		Fields:       fields,
	})
}
