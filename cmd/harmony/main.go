// Command harmony is the registry CLI: policy-driven, journal-backed
// escrow allocation management.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/zelrocks/harmony-protocol/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Guard rejections (exit code 1) were already rendered by the
		// command's output formatter; print everything else.
		var exitErr *cli.ExitError
		rendered := errors.As(err, &exitErr) && exitErr.Code == cli.ExitFailure
		if !rendered {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
