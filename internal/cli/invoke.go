package cli

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zelrocks/harmony-protocol/internal/escrow"
)

// InvokeOptions holds flags for the invoke command.
type InvokeOptions struct {
	*RootOptions
	ID    uint64
	Actor string

	Amount        uint64
	Pct           uint64
	Unlock        uint64
	Termination   uint64
	NewOriginator string
	Attested      uint64
	Signers       []string
	Threshold     uint64
	Digest        string
	Signature     string
	Note          string
	Limit         uint64
	Monitor       string
	Level         uint64
}

// NewInvokeCommand creates the invoke command, the generic entry point for
// every operation on an existing allocation.
func NewInvokeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InvokeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "invoke <operation>",
		Short: "Invoke an operation on an existing allocation",
		Long: `Invoke an operation on an existing allocation. The operation name matches
the audit record op: accept, finalize, revert, terminate, reclaim, freeze,
thaw, lock, unlock, challenge, arbitrate, pause, resume, hold, release-hold,
timelock, claim, release-partial, top-up, extend, transfer-control, and the
audit-only operations verify-2fa, multisig-register, multisig-approve,
document, attest, rate-limit, monitor, priority.

Examples:
  harmony invoke accept --id 1 --actor bob
  harmony invoke arbitrate --id 1 --actor sup --pct 25
  harmony invoke release-partial --id 1 --actor alice --amount 100`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoke(cmd, opts, escrow.Op(args[0]))
		},
	}

	cmd.Flags().Uint64Var(&opts.ID, "id", 0, "allocation identifier")
	cmd.Flags().StringVar(&opts.Actor, "actor", "", "acting account")
	cmd.MarkFlagRequired("id")
	cmd.MarkFlagRequired("actor")

	cmd.Flags().Uint64Var(&opts.Amount, "amount", 0, "quantity for release-partial / top-up")
	cmd.Flags().Uint64Var(&opts.Pct, "pct", 0, "originator percentage for arbitrate")
	cmd.Flags().Uint64Var(&opts.Unlock, "unlock", 0, "unlock height for timelock")
	cmd.Flags().Uint64Var(&opts.Termination, "termination", 0, "new termination block for extend")
	cmd.Flags().StringVar(&opts.NewOriginator, "new-originator", "", "account for transfer-control")
	cmd.Flags().Uint64Var(&opts.Attested, "attested", 0, "attested height for verify-2fa")
	cmd.Flags().StringSliceVar(&opts.Signers, "signers", nil, "signer accounts for multisig-register")
	cmd.Flags().Uint64Var(&opts.Threshold, "threshold", 0, "approval threshold for multisig-register")
	cmd.Flags().StringVar(&opts.Digest, "digest", "", "hex digest for multisig-approve / document")
	cmd.Flags().StringVar(&opts.Signature, "signature", "", "hex signature envelope for multisig-approve")
	cmd.Flags().StringVar(&opts.Note, "note", "", "note for attest")
	cmd.Flags().Uint64Var(&opts.Limit, "limit", 0, "limit for rate-limit")
	cmd.Flags().StringVar(&opts.Monitor, "monitor", "", "oversight account for monitor")
	cmd.Flags().Uint64Var(&opts.Level, "level", 0, "level for priority")

	return cmd
}

func runInvoke(cmd *cobra.Command, opts *InvokeOptions, op escrow.Op) error {
	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	rt, err := openRuntime(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	f.VerboseLog("registry at height %d, %d allocation(s) rebuilt", rt.Height, rt.Registry.LastID())

	r := rt.Registry
	id := opts.ID
	actor := escrow.Account(opts.Actor)

	var (
		a         escrow.Allocation
		auditOnly bool
	)
	switch op {
	case escrow.OpAccept:
		a, err = r.Accept(id, actor)
	case escrow.OpFinalize:
		a, err = r.Finalize(id, actor)
	case escrow.OpRevert:
		a, err = r.Revert(id, actor)
	case escrow.OpTerminate:
		a, err = r.Terminate(id, actor)
	case escrow.OpReclaim:
		a, err = r.Reclaim(id, actor)
	case escrow.OpFreeze:
		a, err = r.Freeze(id, actor)
	case escrow.OpThaw:
		a, err = r.Thaw(id, actor)
	case escrow.OpLock:
		a, err = r.Lock(id, actor)
	case escrow.OpUnlock:
		a, err = r.Unlock(id, actor)
	case escrow.OpChallenge:
		a, err = r.Challenge(id, actor)
	case escrow.OpArbitrate:
		a, err = r.Arbitrate(id, actor, opts.Pct)
	case escrow.OpPause:
		a, err = r.Pause(id, actor)
	case escrow.OpResume:
		a, err = r.Resume(id, actor)
	case escrow.OpHold:
		a, err = r.Hold(id, actor)
	case escrow.OpReleaseHold:
		a, err = r.ReleaseHold(id, actor)
	case escrow.OpTimelock:
		a, err = r.Timelock(id, actor, opts.Unlock)
	case escrow.OpClaim:
		a, err = r.Claim(id, actor)
	case escrow.OpReleasePartial:
		a, err = r.ReleasePartial(id, actor, opts.Amount)
	case escrow.OpTopUp:
		a, err = r.TopUp(id, actor, opts.Amount)
	case escrow.OpExtend:
		a, err = r.Extend(id, actor, opts.Termination)
	case escrow.OpTransferControl:
		a, err = r.TransferControl(id, actor, escrow.Account(opts.NewOriginator))

	case escrow.OpVerifyTwoFactor:
		auditOnly = true
		err = r.VerifyTwoFactor(id, actor, opts.Attested)
	case escrow.OpMultisigRegister:
		auditOnly = true
		signers := make([]escrow.Account, len(opts.Signers))
		for i, s := range opts.Signers {
			signers[i] = escrow.Account(s)
		}
		err = r.RegisterMultisig(id, actor, signers, opts.Threshold)
	case escrow.OpMultisigApprove:
		auditOnly = true
		var digest, signature []byte
		digest, err = hex.DecodeString(opts.Digest)
		if err != nil {
			return WrapExitError(ExitCommandError, "decode --digest", err)
		}
		signature, err = hex.DecodeString(opts.Signature)
		if err != nil {
			return WrapExitError(ExitCommandError, "decode --signature", err)
		}
		err = r.ApproveMultisig(id, actor, digest, signature)
	case escrow.OpDocument:
		auditOnly = true
		err = r.AttachDocument(id, actor, opts.Digest)
	case escrow.OpAttest:
		auditOnly = true
		err = r.Attest(id, actor, opts.Note)
	case escrow.OpRateLimit:
		auditOnly = true
		err = r.ConfigureRateLimit(id, actor, opts.Limit)
	case escrow.OpMonitor:
		auditOnly = true
		err = r.RegisterMonitor(id, actor, escrow.Account(opts.Monitor))
	case escrow.OpPriority:
		auditOnly = true
		err = r.SetPriority(id, actor, opts.Level)

	case escrow.OpCreate:
		return WrapExitError(ExitCommandError, "use 'harmony create' for new allocations", nil)
	default:
		return WrapExitError(ExitCommandError, fmt.Sprintf("unknown operation %q", op), nil)
	}

	if err != nil {
		return opFailure(f, err)
	}
	if auditOnly {
		return f.Success(fmt.Sprintf("%s recorded for allocation %d", op, id))
	}
	return f.Success(viewOf(a))
}
