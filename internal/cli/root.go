// Package cli assembles peelbox's cobra command tree (spec.md §6):
// detect, build, and health. A thin cmd/peelbox main.go calls
// cli.Execute(), keeping the command wiring itself testable and
// import-cycle-free of the binary.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/peelbox/peelbox/pkg/config"
)

// Version carries build-time metadata, statically populated by the
// release build via -ldflags.
type Version struct {
	Date string
	Vers string
	Hash string
}

func (v Version) String() string {
	if v.Vers == "" {
		return "(devel)"
	}
	return fmt.Sprintf("%s (%s, %s)", v.Vers, v.Hash, v.Date)
}

// RootCommandConfig names the binary and stamps its version; the name
// is threaded through subcommand help text.
type RootCommandConfig struct {
	Name    string
	Version Version
}

// NewRootCmd builds the command tree. It has no action of its own:
// running the binary with no arguments prints usage.
func NewRootCmd(rcfg RootCommandConfig) *cobra.Command {
	root := &cobra.Command{
		Use:           rcfg.Name,
		Short:         "Detect and build container images from a repository",
		Version:       rcfg.Version.String(),
		SilenceErrors: true, // errors are printed explicitly in Execute
		SilenceUsage:  true,
		Long: `peelbox detects the independently-deployable services in a repository,
emits a language-neutral UniversalBuild spec per service, and drives a
buildkit-compatible builder daemon to produce their container images.`,
	}

	cfg, err := config.NewDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load config at %q: %v\n", config.File(), err)
		cfg = config.New()
	}

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", cfg.Verbose, "print verbose logs")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := cfg.SlogLevel()
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}

	root.AddCommand(NewDetectCmd())
	root.AddCommand(NewBuildCmd())
	root.AddCommand(NewHealthCmd())

	return root
}
