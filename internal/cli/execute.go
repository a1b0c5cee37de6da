package cli

import (
	"context"
	"fmt"
	"os"
)

// Execute runs the command tree to completion. Errors are printed to
// stderr and the process exits 1; success exits 0 (spec.md §6).
func Execute(ctx context.Context, rcfg RootCommandConfig) {
	if err := NewRootCmd(rcfg).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
