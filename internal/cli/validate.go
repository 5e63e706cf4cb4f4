package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zelrocks/harmony-protocol/internal/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the deployment policy file",
		Long: `Validate the policy file against the embedded schema without touching
the journal. Exit code 0 means the policy is deployable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootOpts)
		},
	}
	return cmd
}

func runValidate(cmd *cobra.Command, opts *RootOptions) error {
	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	pol, err := config.Load(opts.Policy)
	if err != nil {
		var lerr *config.LoadError
		if errors.As(err, &lerr) {
			f.Error(lerr.Code, lerr.Message, nil)
			return WrapExitError(ExitFailure, "policy invalid", err)
		}
		return WrapExitError(ExitCommandError, "load policy", err)
	}

	return f.Success(fmt.Sprintf("policy valid: supervisor=%s custodian=%s accounts=%d",
		pol.Supervisor, pol.Custodian, len(pol.Balances)))
}
