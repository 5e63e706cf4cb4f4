package cli

import (
	"context"
	"fmt"

	"github.com/zelrocks/harmony-protocol/internal/config"
	"github.com/zelrocks/harmony-protocol/internal/escrow"
	"github.com/zelrocks/harmony-protocol/internal/journal"
	"github.com/zelrocks/harmony-protocol/internal/ledger"
)

// heightClock is a fixed block-height source for one CLI invocation. The
// height comes from the --height flag or, when unset, from the highest
// height already recorded in the journal.
type heightClock uint64

func (c heightClock) CurrentHeight() uint64 {
	return uint64(c)
}

// runtime is a fully wired registry for one CLI invocation: policy loaded,
// journal opened, ledger and store rebuilt from the journal.
type runtime struct {
	Policy   *config.Policy
	Journal  *journal.Journal
	Ledger   *ledger.Ledger
	Registry *escrow.Registry
	Height   uint64
}

// openRuntime loads the policy, opens the journal and rebuilds registry
// state. Loader failures map to ExitCommandError; they precede any
// registry guard.
func openRuntime(ctx context.Context, opts *RootOptions) (*runtime, error) {
	pol, err := config.Load(opts.Policy)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load policy", err)
	}

	jnl, err := journal.Open(opts.Journal)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open journal", err)
	}

	rb, err := jnl.Rebuild(ctx)
	if err != nil {
		jnl.Close()
		return nil, WrapExitError(ExitCommandError, "rebuild state", err)
	}

	lgr := ledger.New(escrow.Account(pol.Custodian), pol.LedgerBalances())
	for _, m := range rb.Movements {
		if terr := lgr.Transfer(m.Amount, m.From, m.To); terr != nil {
			jnl.Close()
			return nil, WrapExitError(ExitCommandError,
				fmt.Sprintf("replay movement %d %s->%s", m.Amount, m.From, m.To), terr)
		}
	}

	height := opts.Height
	if height == 0 {
		height, err = jnl.LastHeight(ctx)
		if err != nil {
			jnl.Close()
			return nil, WrapExitError(ExitCommandError, "read journal height", err)
		}
	}

	registry := escrow.New(
		lgr,
		heightClock(height),
		escrow.Ed25519Verifier{},
		jnl,
		pol.RegistryPolicy(),
		escrow.WithState(rb.Allocations, rb.LastID),
		escrow.WithSequence(escrow.NewSequenceAt(rb.LastSeq)),
	)

	return &runtime{
		Policy:   pol,
		Journal:  jnl,
		Ledger:   lgr,
		Registry: registry,
		Height:   height,
	}, nil
}

// Close releases the journal handle.
func (r *runtime) Close() error {
	return r.Journal.Close()
}
