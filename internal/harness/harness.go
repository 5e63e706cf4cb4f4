package harness

import (
	"encoding/hex"
	"fmt"

	"github.com/zelrocks/harmony-protocol/internal/escrow"
	"github.com/zelrocks/harmony-protocol/internal/ledger"
	"github.com/zelrocks/harmony-protocol/internal/testutil"
)

// Result is a completed scenario run: the full audit trace plus the final
// registry and ledger for follow-up assertions.
type Result struct {
	Trace    []escrow.Event
	Registry *escrow.Registry
	Ledger   *ledger.Ledger
}

// Run executes the scenario against a fresh deterministic registry and
// checks every step's expectation. The first violated expectation aborts
// the run with an error naming the step.
func Run(s *Scenario) (*Result, error) {
	clock := testutil.NewManualClock(s.Height)
	sink := testutil.NewCollectSink()
	lgr := ledger.New(escrow.Account(s.Policy.Custodian), accountBalances(s.Balances))
	verifier := testutil.ScriptedVerifier{Signer: escrow.Account(s.Signer)}

	registry := escrow.New(lgr, clock, verifier, sink, escrow.Policy{
		Supervisor:   escrow.Account(s.Policy.Supervisor),
		AttestWindow: s.Policy.AttestWindow,
		HoldDuration: s.Policy.HoldDuration,
		MaxPriority:  s.Policy.MaxPriority,
	}, escrow.WithOriginGenerator(escrow.NewFixedGenerator(s.Origin)))

	for i, step := range s.Steps {
		if step.Height != nil {
			clock.SetHeight(*step.Height)
		}

		id := step.ID
		if id == 0 {
			id = registry.LastID()
		}

		err := dispatch(registry, step, id)
		if cerr := checkExpectation(registry, step, id, err); cerr != nil {
			return nil, fmt.Errorf("scenario %s, step %d (%s): %w", s.Name, i+1, step.Op, cerr)
		}
	}

	return &Result{
		Trace:    sink.Events(),
		Registry: registry,
		Ledger:   lgr,
	}, nil
}

// dispatch routes one step to the registry operation it names.
func dispatch(r *escrow.Registry, step Step, id uint64) error {
	actor := escrow.Account(step.Actor)
	p := step.Params

	var err error
	switch escrow.Op(step.Op) {
	case escrow.OpCreate:
		_, err = r.Create(actor,
			escrow.Account(paramString(p, "beneficiary")),
			paramUint(p, "resource"),
			paramUint(p, "quantity"),
			paramUint(p, "termination"))
	case escrow.OpAccept:
		_, err = r.Accept(id, actor)
	case escrow.OpFinalize:
		_, err = r.Finalize(id, actor)
	case escrow.OpRevert:
		_, err = r.Revert(id, actor)
	case escrow.OpTerminate:
		_, err = r.Terminate(id, actor)
	case escrow.OpReclaim:
		_, err = r.Reclaim(id, actor)
	case escrow.OpFreeze:
		_, err = r.Freeze(id, actor)
	case escrow.OpThaw:
		_, err = r.Thaw(id, actor)
	case escrow.OpLock:
		_, err = r.Lock(id, actor)
	case escrow.OpUnlock:
		_, err = r.Unlock(id, actor)
	case escrow.OpChallenge:
		_, err = r.Challenge(id, actor)
	case escrow.OpArbitrate:
		_, err = r.Arbitrate(id, actor, paramUint(p, "pct"))
	case escrow.OpPause:
		_, err = r.Pause(id, actor)
	case escrow.OpResume:
		_, err = r.Resume(id, actor)
	case escrow.OpHold:
		_, err = r.Hold(id, actor)
	case escrow.OpReleaseHold:
		_, err = r.ReleaseHold(id, actor)
	case escrow.OpTimelock:
		_, err = r.Timelock(id, actor, paramUint(p, "unlock"))
	case escrow.OpClaim:
		_, err = r.Claim(id, actor)
	case escrow.OpReleasePartial:
		_, err = r.ReleasePartial(id, actor, paramUint(p, "amount"))
	case escrow.OpTopUp:
		_, err = r.TopUp(id, actor, paramUint(p, "amount"))
	case escrow.OpExtend:
		_, err = r.Extend(id, actor, paramUint(p, "termination"))
	case escrow.OpTransferControl:
		_, err = r.TransferControl(id, actor, escrow.Account(paramString(p, "new_originator")))

	case escrow.OpVerifyTwoFactor:
		err = r.VerifyTwoFactor(id, actor, paramUint(p, "attested"))
	case escrow.OpMultisigRegister:
		err = r.RegisterMultisig(id, actor, paramAccounts(p, "signers"), paramUint(p, "threshold"))
	case escrow.OpMultisigApprove:
		digest, derr := hex.DecodeString(paramString(p, "digest"))
		if derr != nil {
			return fmt.Errorf("bad digest param: %w", derr)
		}
		err = r.ApproveMultisig(id, actor, digest, nil)
	case escrow.OpDocument:
		err = r.AttachDocument(id, actor, paramString(p, "digest"))
	case escrow.OpAttest:
		err = r.Attest(id, actor, paramString(p, "note"))
	case escrow.OpRateLimit:
		err = r.ConfigureRateLimit(id, actor, paramUint(p, "limit"))
	case escrow.OpMonitor:
		err = r.RegisterMonitor(id, actor, escrow.Account(paramString(p, "monitor")))
	case escrow.OpPriority:
		err = r.SetPriority(id, actor, paramUint(p, "level"))

	default:
		return fmt.Errorf("unknown operation %q", step.Op)
	}
	return err
}

// checkExpectation validates a step result against its Expect clause.
func checkExpectation(r *escrow.Registry, step Step, id uint64, err error) error {
	var wantCode escrow.Code
	if step.Expect != nil {
		wantCode = escrow.Code(step.Expect.Error)
	}

	if wantCode == "" {
		if err != nil {
			return fmt.Errorf("expected success, got %v", err)
		}
	} else {
		if err == nil {
			return fmt.Errorf("expected error %s, got success", wantCode)
		}
		if got := escrow.CodeOf(err); got != wantCode {
			return fmt.Errorf("expected error %s, got %s (%v)", wantCode, got, err)
		}
	}

	if step.Expect != nil && step.Expect.Status != "" {
		// A create step targets the freshly issued identifier.
		if escrow.Op(step.Op) == escrow.OpCreate {
			id = r.LastID()
		}
		a, gerr := r.Get(id)
		if gerr != nil {
			return fmt.Errorf("status check: %v", gerr)
		}
		if string(a.Status) != step.Expect.Status {
			return fmt.Errorf("expected status %s, got %s", step.Expect.Status, a.Status)
		}
	}
	return nil
}

func accountBalances(in map[string]uint64) map[escrow.Account]uint64 {
	out := make(map[escrow.Account]uint64, len(in))
	for acct, bal := range in {
		out[escrow.Account(acct)] = bal
	}
	return out
}

// paramString returns the named string parameter, empty when absent.
func paramString(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

// paramUint returns the named integer parameter, zero when absent.
// yaml decodes scenario integers as int.
func paramUint(params map[string]any, key string) uint64 {
	switch v := params[key].(type) {
	case int:
		if v < 0 {
			return 0
		}
		return uint64(v)
	case int64:
		if v < 0 {
			return 0
		}
		return uint64(v)
	case uint64:
		return v
	default:
		return 0
	}
}

// paramAccounts returns the named list parameter as accounts.
func paramAccounts(params map[string]any, key string) []escrow.Account {
	list, ok := params[key].([]any)
	if !ok {
		return nil
	}
	accounts := make([]escrow.Account, 0, len(list))
	for _, elem := range list {
		if s, ok := elem.(string); ok {
			accounts = append(accounts, escrow.Account(s))
		}
	}
	return accounts
}
