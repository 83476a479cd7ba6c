package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"agrovista/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		var exit *exitCodeError
		if errors.As(err, &exit) {
			// The command already reported its outcome on stdout.
			os.Exit(exit.code)
		}
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(services.ExitCode(err))
	}
}

// exitCodeError carries a verdict-driven exit code for commands whose
// outcome is not a failure, such as a non-compliant verification.
type exitCodeError struct {
	code   int
	reason string
}

func (e *exitCodeError) Error() string { return e.reason }
