package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/peelbox/peelbox/pkg/llm"
	"github.com/peelbox/peelbox/pkg/perr"
	"github.com/peelbox/peelbox/pkg/pipeline"
)

// NewDetectCmd builds the "detect <path>" command (spec.md §6): runs
// the Detection Pipeline against a repository and prints an array of
// UniversalBuild as JSON to stdout. Logs go to stderr, never mixed
// into the result stream.
func NewDetectCmd() *cobra.Command {
	var table bool

	cmd := &cobra.Command{
		Use:   "detect <path>",
		Short: "Detect independently-deployable services and emit their build specs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot := args[0]
			if fi, err := os.Stat(repoRoot); err != nil || !fi.IsDir() {
				return perr.InputInvalid{Reason: fmt.Sprintf("%q is not a readable directory", repoRoot)}
			}

			result, err := pipeline.Detect(cmd.Context(), repoRoot, pipeline.Options{
				Client: llm.Unavailable{},
				Warn:   func(msg string) { slog.Warn(msg) },
			})
			if err != nil {
				return err
			}

			if table {
				return printDetectTable(cmd, result)
			}
			return printDetectJSON(cmd, result)
		},
	}

	cmd.Flags().BoolVar(&table, "table", false, "print results as a table instead of JSON")
	return cmd
}

func printDetectJSON(cmd *cobra.Command, result pipeline.Result) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result.Builds)
}

func printDetectTable(cmd *cobra.Command, result pipeline.Result) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-30s %-12s %-16s %-8s\n", "PROJECT", "LANGUAGE", "BUILD SYSTEM", "PORTS")
	for _, b := range result.Builds {
		fmt.Fprintf(w, "%-30s %-12s %-16s %v\n", b.Metadata.ProjectName, b.Metadata.Language, b.Metadata.BuildSystem, b.Runtime.Ports)
	}
	return nil
}
