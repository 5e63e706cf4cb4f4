package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "show <id>",
		Short:         "Show an allocation record",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runShow(cmd *cobra.Command, opts *RootOptions, arg string) error {
	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return WrapExitError(ExitCommandError, "parse allocation id", err)
	}

	rt, err := openRuntime(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	a, err := rt.Registry.Get(id)
	if err != nil {
		return opFailure(f, err)
	}
	return f.Success(viewOf(a))
}
