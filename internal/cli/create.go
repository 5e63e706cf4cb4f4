package cli

import (
	"github.com/spf13/cobra"

	"github.com/zelrocks/harmony-protocol/internal/escrow"
)

// CreateOptions holds flags for the create command.
type CreateOptions struct {
	*RootOptions
	Actor       string
	Beneficiary string
	Resource    uint64
	Quantity    uint64
	Termination uint64
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Escrow funds into a new allocation",
		Long: `Escrow funds from the acting account into custody and register a new
pending allocation. The actor becomes the originator.

Example:
  harmony create --actor alice --beneficiary bob --quantity 500 --termination 100`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Actor, "actor", "", "acting account (the originator)")
	cmd.Flags().StringVar(&opts.Beneficiary, "beneficiary", "", "beneficiary account")
	cmd.Flags().Uint64Var(&opts.Resource, "resource", 0, "resource identifier")
	cmd.Flags().Uint64Var(&opts.Quantity, "quantity", 0, "quantity to escrow")
	cmd.Flags().Uint64Var(&opts.Termination, "termination", 0, "termination block height")
	cmd.MarkFlagRequired("actor")
	cmd.MarkFlagRequired("beneficiary")
	cmd.MarkFlagRequired("quantity")
	cmd.MarkFlagRequired("termination")

	return cmd
}

func runCreate(cmd *cobra.Command, opts *CreateOptions) error {
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

	a, err := rt.Registry.Create(
		escrow.Account(opts.Actor),
		escrow.Account(opts.Beneficiary),
		opts.Resource,
		opts.Quantity,
		opts.Termination,
	)
	if err != nil {
		return opFailure(f, err)
	}

	return f.Success(viewOf(a))
}
