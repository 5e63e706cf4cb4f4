package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zelrocks/harmony-protocol/internal/journal"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Show the audit history of an allocation",
		Long: `Show every journaled audit event for one allocation, in commit order
(logical sequence, then content-addressed id).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

// historyEntry is the CLI rendering of one journaled event.
type historyEntry struct {
	EventID string         `json:"event_id"`
	Seq     int64          `json:"seq"`
	Op      string         `json:"op"`
	Actor   string         `json:"actor"`
	Height  uint64         `json:"height"`
	Status  string         `json:"status"`
	Fields  map[string]any `json:"fields,omitempty"`
}

type historyView []historyEntry

func (v historyView) String() string {
	if len(v) == 0 {
		return "no events"
	}
	var b strings.Builder
	for i, e := range v {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "#%d %s by %s at height %d -> %s (%s)",
			e.Seq, e.Op, e.Actor, e.Height, e.Status, e.EventID[:12])
	}
	return b.String()
}

func runHistory(cmd *cobra.Command, opts *RootOptions, arg string) error {
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

	jnl, err := journal.Open(opts.Journal)
	if err != nil {
		return WrapExitError(ExitCommandError, "open journal", err)
	}
	defer jnl.Close()

	records, err := jnl.AllocationHistory(cmd.Context(), id)
	if err != nil {
		return WrapExitError(ExitCommandError, "read history", err)
	}

	view := make(historyView, len(records))
	for i, rec := range records {
		view[i] = historyEntry{
			EventID: rec.ID,
			Seq:     rec.Event.Seq,
			Op:      string(rec.Event.Op),
			Actor:   string(rec.Event.Actor),
			Height:  rec.Event.Height,
			Status:  string(rec.Event.Status),
			Fields:  rec.Event.Fields,
		}
	}
	return f.Success(view)
}
