package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peelbox/peelbox/pkg/config"
	"github.com/peelbox/peelbox/pkg/llm"
	"github.com/peelbox/peelbox/pkg/perr"
)

// NewHealthCmd builds the "health" command (spec.md §6): checks LLM
// provider availability. pkg/llm's Client is transport-agnostic by
// design (spec.md §1 scopes concrete providers out), and no provider
// is wired in here: with no API key in the environment the command
// fails with "no LLM provider API key is configured"; with keys
// present it checks llm.Unavailable, so it still fails, naming the
// providers config.ConfiguredProviders found.
func NewHealthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check LLM provider availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			providers := config.ConfiguredProviders()
			if len(providers) == 0 {
				return perr.LLMUnavailable{Cause: fmt.Errorf("no LLM provider API key is configured")}
			}

			var client llm.Client = llm.Unavailable{}
			if err := client.Available(cmd.Context()); err != nil {
				return perr.LLMUnavailable{Providers: providers, Cause: err}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "available: %v\n", providers)
			return nil
		},
	}
	return cmd
}
