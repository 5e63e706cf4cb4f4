// Package cli implements the harmony command line interface: a
// journal-backed registry that loads its deployment policy from CUE, rebuilds
// state from the SQLite audit journal, applies one operation and appends the
// resulting audit event.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Policy  string // policy file path (CUE)
	Journal string // journal database path (SQLite)
	Height  uint64 // current block height; 0 resumes from the journal
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the harmony CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "harmony",
		Short: "Harmony - resource escrow registry",
		Long:  "A journal-backed escrow registry: guarded allocation lifecycle over a settlement ledger.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Policy, "policy", "policy.cue", "deployment policy file")
	cmd.PersistentFlags().StringVar(&opts.Journal, "journal", "harmony.db", "audit journal database")
	cmd.PersistentFlags().Uint64Var(&opts.Height, "height", 0, "current block height (0: resume from journal)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewInvokeCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
